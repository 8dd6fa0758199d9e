package lsh

const (
	// DefaultHashSize is the number of bits per table code.
	DefaultHashSize = 10
	// DefaultTables is the number of hash tables.
	DefaultTables = 1
	// DefaultSeed seeds hyperplane generation.
	DefaultSeed uint64 = 1
	// MaxHashSize bounds k so that a code fits in a uint64.
	MaxHashSize = 64
)

// Option configures an Index at construction time.
type Option func(*options)

type options struct {
	hashSize    int
	tables      int
	seed        uint64
	planes      [][][]float32
	probeRadius int
}

func defaultOptions() options {
	return options{
		hashSize: DefaultHashSize,
		tables:   DefaultTables,
		seed:     DefaultSeed,
	}
}

// WithHashSize sets the number of bits (hyperplanes) per table.
func WithHashSize(k int) Option {
	return func(o *options) { o.hashSize = k }
}

// WithTables sets the number of independent hash tables.
func WithTables(l int) Option {
	return func(o *options) { o.tables = l }
}

// WithSeed sets the seed used to draw hyperplanes.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithPlanes supplies the hyperplanes explicitly as an L×k×dim array. Table
// count and hash size are taken from its shape and override WithTables and
// WithHashSize.
func WithPlanes(planes [][][]float32) Option {
	return func(o *options) { o.planes = planes }
}

// WithProbeRadius makes queries also visit buckets whose code differs from
// the query code in at most r bits. Zero probes only the exact bucket.
func WithProbeRadius(r int) Option {
	return func(o *options) { o.probeRadius = r }
}
