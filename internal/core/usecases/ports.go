package usecases

import (
	"context"
	"time"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

// Logger defines the interface for structured logging.
//
// The logging adapter emits JSON entries to stderr by default (New) so stdout
// stays free for any future machine-readable command output; NewWithWriter
// sends them to any other io.Writer.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, err error, keysAndValues ...any)
	WithContext(ctx context.Context) Logger
	WithFields(keysAndValues ...any) Logger
}

// OutputEncoder serializes compiler artifacts to the bundle's output
// formats: JSON for project.json, and TOON for the token-efficient
// hierarchy dump.
type OutputEncoder interface {
	EncodeJSON(value any) ([]byte, error)
	DecodeJSON(data []byte, value any) error
	EncodeTOON(value any) ([]byte, error)
}

// AssetProbe resolves the costume/sound names a SpriteInput references into
// concrete asset bytes, content hashes, and format metadata, reading them
// from the project's on-disk assets tree. Hashing content and classifying
// image/audio formats by extension are delegated here, out of the
// compiler's core scope; the pipeline only needs the resulting
// entities.Asset records.
type AssetProbe interface {
	// ResolveCostume returns asset metadata and bytes for a costume reference.
	ResolveCostume(ctx context.Context, sprite, name string) (entities.Asset, error)
	// ResolveSound returns asset metadata and bytes for a sound reference.
	ResolveSound(ctx context.Context, sprite, name string) (entities.Asset, error)
}

// CatalogLoader parses the human-readable command-catalog text format into
// a CommandCatalog.
type CatalogLoader interface {
	// Load parses catalog text (pipe-separated
	// section|name|opcode|shape|returnType|argspecs lines, followed by
	// alias=target lines after a ---ALIASES--- marker line) into a
	// CommandCatalog. The colon-separated useName:opcode:shape:inputSpec
	// line form is not accepted.
	Load(source []byte, allowAliasOverride bool) (*entities.CommandCatalog, error)
}

// ProjectWriter stages and archives a compiled Project into the bundle
// format described in spec §6: project.json, asset files, a log file, an
// ASCII hierarchy dump, and the supplemental TOON/D2 debug renderings.
type ProjectWriter interface {
	// Write stages outDir with the bundle's contents and archives it into a
	// single zip file, returning the archive's path.
	Write(ctx context.Context, result *CompileResult, outDir, id string) (archivePath string, err error)
}

// DiagramGenerator renders a compiled block graph as D2 diagram source, for
// the bundle's supplemental debug output and for the structural cycle check
// performed before packaging.
type DiagramGenerator interface {
	// GenerateBlockGraph renders one sprite target's block graph (parent/
	// next/input edges) as D2 source.
	GenerateBlockGraph(target *entities.Target) (string, error)
}

// GraphValidator compiles D2 source purely to check that the described
// graph has no structural cycles, reusing a real layout-graph library
// instead of hand-rolling cycle detection.
type GraphValidator interface {
	CheckAcyclic(ctx context.Context, d2Source string) error
}

// FileWatcher monitors the file system for source changes, debouncing
// rapid bursts of events into a single batch.
type FileWatcher interface {
	Watch(ctx context.Context, rootPath string) (<-chan FileChangeEvent, error)
	Stop() error
}

// FileChangeEvent describes a change detected by the file watcher.
type FileChangeEvent struct {
	Path string
	Op   string // one of: create, write, remove, rename, chmod
}

// ProgressReporter communicates compile progress and results to the user,
// typically rendered with lipgloss styling in the CLI adapter.
type ProgressReporter interface {
	ReportProgress(step string, current, total int, message string)
	ReportError(err error)
	ReportSuccess(message string)
	ReportInfo(message string)
}

// CompilerConfig holds all tunables for a compilation, decoded from layered
// Viper configuration (flags > env > project file > global config > defaults).
type CompilerConfig struct {
	StackSpacing       int
	CommentOffset      int
	CatalogPath        string
	AllowAliasOverride bool
	OutputFormats      []string // subset of "project", "hierarchy", "diagram"
}

// DefaultCompilerConfig returns the compiler's built-in defaults, used
// before any configuration file or flag is applied.
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		StackSpacing:       600,
		CommentOffset:      25,
		AllowAliasOverride: false,
		OutputFormats:      []string{"project", "hierarchy", "diagram"},
	}
}

// PathResolver resolves XDG-compliant paths for application data.
type PathResolver interface {
	ConfigDir() string
	DataDir() string
	CacheDir() string
	ConfigFile() string
	CatalogDir() string
}

// BuildStats holds statistics from a compilation for reporting.
type BuildStats struct {
	SpritesCompiled int
	BlocksEmitted   int
	ErrorCount      int
	Duration        time.Duration
}
