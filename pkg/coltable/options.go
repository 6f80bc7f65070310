package coltable

// Options configures a new Table.
type Options struct {
	// BlockCodes is the per-block code capacity shared by every column and
	// every bit-vector this table creates. Zero selects column.DefaultBlockCodes.
	BlockCodes int

	// DeleteExisting is stored with the Table's options; neither coltable
	// nor colfile reads it, so it does not change what Load or Save do.
	DeleteExisting bool

	// InMemory is stored with the Table's options; colfile does not read
	// it, so Save and Load still perform their I/O when it is set.
	InMemory bool
}
