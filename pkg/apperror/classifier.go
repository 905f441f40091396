package apperror

import (
	"regexp"
	"strconv"
	"strings"
)

// Classifier turns raw sandbox error text into a ClassifiedError
type Classifier struct{}

// NewClassifier creates a new error classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Kind detection patterns, matched case-insensitively in order. Order
// matters: "cannot read property ... of undefined" must land on null-access
// before the generic runtime TypeError patterns get a chance.
var kindPatterns = []struct {
	kind     ErrorKind
	patterns []string
}{
	{KindInfiniteLoop, []string{
		"maximum update depth exceeded",
		"too many re-renders",
		"maximum call stack size exceeded",
		"infinite loop",
	}},
	{KindHookMisuse, []string{
		"invalid hook call",
		"rendered more hooks",
		"rendered fewer hooks",
		"hooks can only be called",
		"change in the order of hooks",
	}},
	{KindNullAccess, []string{
		"cannot read propert",
		"of undefined",
		"of null",
		"null is not an object",
		"undefined is not an object",
		"cannot destructure",
	}},
	{KindImport, []string{
		"cannot find module",
		"module not found",
		"failed to resolve import",
		"does not provide an export",
		"cannot resolve",
	}},
	{KindSyntax, []string{
		"syntaxerror",
		"unexpected token",
		"unexpected end of input",
		"unterminated string",
		"parse error",
		"parsing error",
	}},
	{KindStyling, []string{
		"unknown utility class",
		"tailwind",
		"postcss",
		"css syntax",
		"@apply",
	}},
	{KindNetwork, []string{
		"failed to fetch",
		"fetch failed",
		"networkerror",
		"econnrefused",
		"etimedout",
		"enotfound",
		"socket hang up",
		"cors",
	}},
	{KindBuild, []string{
		"build failed",
		"failed to compile",
		"compilation failed",
		"bundling failed",
		"esbuild",
		"rollup error",
	}},
	{KindType, []string{
		"is not assignable to",
		"does not exist on type",
		"has no exported member",
		"argument of type",
	}},
	{KindRuntime, []string{
		"referenceerror",
		"is not defined",
		"is not a function",
		"rangeerror",
		"uncaught exception",
		"unhandled promise rejection",
		"unhandled rejection",
	}},
}

// Messages carrying these markers escalate to critical regardless of kind.
var criticalPatterns = []string{
	"maximum update depth exceeded",
	"maximum call stack size exceeded",
	"too many re-renders",
	"cannot read propert",
	"of undefined",
	"of null",
	"out of memory",
	"white screen",
	"crashed",
	"fatal",
}

// Default severity per kind, applied when no critical marker is present.
var kindSeverity = map[ErrorKind]Severity{
	KindInfiniteLoop: SeverityCritical,
	KindNullAccess:   SeverityCritical,
	KindHookMisuse:   SeverityHigh,
	KindRuntime:      SeverityHigh,
	KindBuild:        SeverityHigh,
	KindType:         SeverityHigh,
	KindImport:       SeverityMedium,
	KindSyntax:       SeverityMedium,
	KindNetwork:      SeverityMedium,
	KindStyling:      SeverityLow,
	KindUnknown:      SeverityMedium,
}

var (
	// Matches "/src/App.tsx:17:4" style source positions.
	locationRegex = regexp.MustCompile(`([\w@./~-]+\.(?:tsx?|jsx?|mjs|cjs|vue|svelte)):(\d+)(?::(\d+))?`)

	// Matches the indented "at fn (file:line:col)" stack lines.
	stackLineRegex = regexp.MustCompile(`(?m)^\s+at\s+.+$`)
)

// Classify analyzes a raw error string and returns the verdict. It never
// returns nil; unrecognizable input classifies as unknown with low
// confidence.
func (c *Classifier) Classify(errStr string) *ClassifiedError {
	result := &ClassifiedError{
		Original: errStr,
		Kind:     KindUnknown,
		Hash:     ErrorHash(errStr),
	}

	for _, entry := range kindPatterns {
		if containsAny(errStr, entry.patterns) {
			result.Kind = entry.kind
			break
		}
	}

	result.Severity = kindSeverity[result.Kind]
	if result.Kind != KindUnknown && containsAny(errStr, criticalPatterns) {
		result.Severity = SeverityCritical
	}

	result.Strategy = StrategyFor(result.Kind, result.Severity)
	result.Fixable = result.Strategy != StrategyManual
	result.Confidence = confidenceFor(result.Kind, result.Severity)

	if matches := locationRegex.FindStringSubmatch(errStr); len(matches) >= 3 {
		result.File = matches[1]
		if line, err := strconv.Atoi(matches[2]); err == nil {
			result.Line = line
		}
	}

	if lines := stackLineRegex.FindAllString(errStr, 5); len(lines) > 0 {
		trimmed := make([]string, 0, len(lines))
		for _, l := range lines {
			trimmed = append(trimmed, strings.TrimSpace(l))
		}
		result.Stack = strings.Join(trimmed, "\n")
	}

	return result
}

// confidenceFor encodes how sure the pattern tables are per kind: import and
// syntax messages are near-unambiguous, critical faults are well known, and
// anything unknown is a guess.
func confidenceFor(kind ErrorKind, severity Severity) float64 {
	switch {
	case kind == KindUnknown:
		return 0.3
	case kind == KindImport || kind == KindSyntax:
		return 0.95
	case severity == SeverityCritical:
		return 0.9
	default:
		return 0.7
	}
}

// containsAny checks if the error string contains any of the patterns (case-insensitive)
func containsAny(errStr string, patterns []string) bool {
	errLower := strings.ToLower(errStr)
	for _, pattern := range patterns {
		if strings.Contains(errLower, pattern) {
			return true
		}
	}
	return false
}
