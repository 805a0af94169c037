package ft

// MetadataSpec is the only supported version of the metadata format.
const MetadataSpec = "ft-1.0.0"

const (
	// ReferenceHashLen is the length of the SHA256 hash of the
	// reference document.
	ReferenceHashLen = 32

	maxDecimals = 255

	metadataFields = 7
)

// Errors thrown by ValidateMetadata and MetadataFromItems.
const (
	ErrMetadataFormat        = "invalid metadata: expected array of 7 fields"
	ErrMetadataFieldType     = "invalid metadata: wrong field type"
	ErrMetadataSpec          = "invalid metadata: unsupported spec"
	ErrMetadataName          = "invalid metadata: empty name"
	ErrMetadataSymbol        = "invalid metadata: empty symbol"
	ErrMetadataDecimals      = "invalid metadata: decimals out of range"
	ErrMetadataReference     = "invalid metadata: reference and reference hash must be set together"
	ErrMetadataReferenceHash = "invalid metadata: reference hash must be 32 bytes"
)

// Metadata describes the token. It is written once on contract
// initialization and never changed. Empty Icon, Reference and ReferenceHash
// mean the field is not set.
type Metadata struct {
	Spec          string
	Name          string
	Symbol        string
	Icon          string
	Reference     string
	ReferenceHash []byte
	Decimals      int
}

// MetadataFromItems converts deployment argument into validated Metadata. The
// argument must be an array of exactly seven fields in Metadata field order:
// five strings, reference hash as bytes and integer decimals.
func MetadataFromItems(data any) Metadata {
	items, ok := data.([]any)
	if !ok || len(items) != metadataFields {
		panic(ErrMetadataFormat)
	}

	for i := 0; i < 5; i++ {
		if _, ok := items[i].(string); !ok {
			panic(ErrMetadataFieldType)
		}
	}

	// parameters come as ByteString, but Buffer is fine too
	_, isStr := items[5].(string)
	_, isBuf := items[5].([]byte)
	if !isStr && !isBuf {
		panic(ErrMetadataFieldType)
	}

	if _, ok := items[6].(int); !ok {
		panic(ErrMetadataFieldType)
	}

	m := Metadata{
		Spec:          items[0].(string),
		Name:          items[1].(string),
		Symbol:        items[2].(string),
		Icon:          items[3].(string),
		Reference:     items[4].(string),
		ReferenceHash: items[5].([]byte),
		Decimals:      items[6].(int),
	}

	ValidateMetadata(m)

	return m
}

// ValidateMetadata panics if the metadata is malformed.
func ValidateMetadata(m Metadata) {
	if m.Spec != MetadataSpec {
		panic(ErrMetadataSpec)
	}

	if len(m.Name) == 0 {
		panic(ErrMetadataName)
	}

	if len(m.Symbol) == 0 {
		panic(ErrMetadataSymbol)
	}

	if m.Decimals < 0 || m.Decimals > maxDecimals {
		panic(ErrMetadataDecimals)
	}

	hasReference := len(m.Reference) != 0
	hasHash := len(m.ReferenceHash) != 0

	if hasReference != hasHash {
		panic(ErrMetadataReference)
	}

	if hasHash && len(m.ReferenceHash) != ReferenceHashLen {
		panic(ErrMetadataReferenceHash)
	}
}
