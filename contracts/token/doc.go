/*
Token contract is a NEP-17 fungible token backed by GAS.

On deployment the contract stores token metadata and credits the whole
initial supply to the owner account. Deployment data is an array of owner
address, initial supply and metadata (spec, name, symbol, icon, reference,
reference hash, decimals).

Balances are kept only for registered accounts. An account is registered with
storageDeposit method which charges a registration deposit in GAS; the deposit
is returned by storageUnregister.

Anyone can mint tokens by transferring GAS to the contract: the received
amount is credited one to one to the account passed as transfer data (or to
the sender if data is empty). Withdraw burns tokens of the caller and returns
the same amount of GAS to it within the same invocation.

# Contract notifications

Transfer notification. This is NEP-17 standard notification. It is also
produced with empty `from` on mint and with empty `to` on withdraw and forced
unregistration.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Mint notification. This notification is produced when tokens are minted in
exchange of GAS. `from` is the GAS sender, `to` is the token receiver.

	Mint:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Withdraw notification. This notification is produced when tokens are burnt and
GAS is returned to the user.

	Withdraw:
	  - name: user
	    type: Hash160
	  - name: amount
	    type: Integer

Register notification. This notification is produced when account is
registered in the token ledger.

	Register:
	  - name: account
	    type: Hash160
	  - name: deposit
	    type: Integer

Unregister notification. This notification is produced when account is
removed from the token ledger and its deposit is returned.

	Unregister:
	  - name: account
	    type: Hash160
	  - name: deposit
	    type: Integer
*/
package token
