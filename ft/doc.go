/*
Package ft implements fungible token bookkeeping for NeoVM contracts.

It is a library, not a contract: token contracts import it to keep account
registrations, balances and total supply in their own storage and expose the
NEP-17 and storage registration methods on top of it. Nothing here produces
notifications, the importing contract decides which events to emit.

Every balance mutation requires a registration entry for the account. An entry
is created with Ledger.Register (usually after the account paid a storage
deposit) and holds the balance together with the deposit paid for it. The
ledger keeps the total supply equal to the sum of all balances.
*/
package ft
