package vcf

// VariantParser is the interface for parsers that read variants.
type VariantParser interface {
	// Next reads the next variant.
	// Returns nil, nil when there are no more variants.
	Next() (*Variant, error)

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}

// HeaderParser is a VariantParser that also exposes the file header.
type HeaderParser interface {
	VariantParser

	// Header returns the ## meta lines and the #CHROM line.
	Header() []string

	// HeaderValue returns the value of the first "##key=value" line.
	HeaderValue(key string) (string, bool)

	// SampleNames returns the sample columns named in the #CHROM line.
	SampleNames() []string
}
