// frame_builder.go builds single stack frames from call-site descriptors.

package faultline

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/strongdm/faultline/pkg/faultline/serializer"
)

// objectIDSuffixPattern matches the runtime object-id suffix of generated
// class names, e.g. ":12$1a" or "0x7f3a".
var objectIDSuffixPattern = regexp.MustCompile(`(?::\d+\$|0x)[a-fA-F0-9]+$`)

// FrameBuilderConfig configures a FrameBuilder.
type FrameBuilderConfig struct {
	// RootPath is the project root used for relative paths.
	RootPath string

	// ContextLines is the source window radius (default: 10). Negative
	// disables source windows.
	ContextLines int

	// Resolver recovers argument names. Nil means positional names only.
	Resolver SignatureResolver

	// Serializer renders argument values. Nil means serializer defaults.
	Serializer *serializer.Serializer

	// SourceCacheSize is the number of files kept in the line cache
	// (default: 128).
	SourceCacheSize int
}

// FrameBuilder turns call-site descriptors into Frames.
// A FrameBuilder is safe for concurrent use.
type FrameBuilder struct {
	rootPath     string
	contextLines int
	resolver     SignatureResolver
	serializer   *serializer.Serializer
	sources      *sourceCache
}

// NewFrameBuilder creates a FrameBuilder.
func NewFrameBuilder(cfg FrameBuilderConfig) *FrameBuilder {
	if cfg.ContextLines == 0 {
		cfg.ContextLines = defaultContextLines
	}
	if cfg.Serializer == nil {
		cfg.Serializer = serializer.New(serializer.DefaultConfig())
	}
	return &FrameBuilder{
		rootPath:     cfg.RootPath,
		contextLines: cfg.ContextLines,
		resolver:     cfg.Resolver,
		serializer:   cfg.Serializer,
		sources:      newSourceCache(cfg.SourceCacheSize),
	}
}

// Build creates the frame for file:line executing the function described by
// info. info may be nil for a frame without function metadata.
func (b *FrameBuilder) Build(file string, line int, info *FrameInfo) Frame {
	if file == "" {
		file = InternalFile
	}

	f := Frame{
		File: filepath.Base(file),
		Line: line,
	}
	if file == InternalFile {
		f.File = InternalFile
	} else {
		f.AbsPath = file
		f.RelativePath = b.relative(file)
		w := b.sources.window(file, line, b.contextLines)
		f.PreContext = w.pre
		f.ContextLine = w.line
		f.PostContext = w.post
	}

	if info != nil {
		f.Function, f.RawFunction = b.functionNames(info)
		f.InApp = b.inApp(f, info)
		if info.Function != "" && info.Args != nil {
			f.Vars = b.vars(info)
		}
	}
	return f
}

// functionNames returns the normalized and raw function names.
func (b *FrameBuilder) functionNames(info *FrameInfo) (function, raw string) {
	if info.Function == "" {
		return "", ""
	}
	if info.Class == "" {
		return info.Function, ""
	}

	class := info.Class
	if rest, ok := strings.CutPrefix(class, AnonymousClassPrefix); ok {
		class = AnonymousClassPrefix + b.anonymousClassPath(rest)
	}
	class = objectIDSuffixPattern.ReplaceAllString(class, "")

	return class + "::" + info.Function, info.Class + "::" + info.Function
}

func (b *FrameBuilder) vars(info *FrameInfo) map[string]any {
	args := resolveArgs(b.resolver, info)
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]any, len(args))
	for name, value := range args {
		out[name] = b.serializer.Serialize(value)
	}
	return out
}

func (b *FrameBuilder) inApp(f Frame, info *FrameInfo) bool {
	switch {
	case info.Function == "":
		return false
	case info.Class == "":
		return !isLibraryFunction(info.Function)
	default:
		return f.AbsPath != "" && !strings.Contains(filepath.ToSlash(f.AbsPath), "/vendor/")
	}
}

// relative returns path relative to the root, or empty without a root.
func (b *FrameBuilder) relative(path string) string {
	if b.rootPath == "" {
		return ""
	}
	return b.trimRoot(path)
}

// trimRoot strips the root prefix and any leading separators.
func (b *FrameBuilder) trimRoot(path string) string {
	if b.rootPath != "" {
		path = strings.TrimPrefix(path, b.rootPath)
	}
	return strings.TrimLeft(path, `/\`)
}

// anonymousClassPath strips the root prefix from the path embedded in an
// anonymous class name, then drops a single leading `\`, `//` or `/`.
func (b *FrameBuilder) anonymousClassPath(path string) string {
	if b.rootPath != "" {
		path = strings.TrimPrefix(path, b.rootPath)
	}
	for _, prefix := range []string{`\`, "//", "/"} {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			return rest
		}
	}
	return path
}
