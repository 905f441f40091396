// Package apperror classifies runtime and build errors observed in a user's
// generated application sandbox, so the auto-fix pipeline can decide whether
// an error is worth fixing, how urgently, and with which strategy.
package apperror

// ErrorKind identifies the family an observed error belongs to
type ErrorKind string

const (
	KindInfiniteLoop ErrorKind = "infinite-loop"
	KindImport       ErrorKind = "import"
	KindSyntax       ErrorKind = "syntax"
	KindType         ErrorKind = "type"
	KindNullAccess   ErrorKind = "null-access"
	KindHookMisuse   ErrorKind = "hook-misuse"
	KindStyling      ErrorKind = "styling"
	KindRuntime      ErrorKind = "runtime"
	KindBuild        ErrorKind = "build"
	KindNetwork      ErrorKind = "network"
	KindUnknown      ErrorKind = "unknown"
)

// Severity ranks how badly an error degrades the sandbox
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities for queue priority, highest first
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// FixStrategy selects which repair flow handles the error
type FixStrategy string

const (
	// StrategyFastFixer handles shallow, mechanical mistakes (imports,
	// syntax, styling) with a single targeted edit.
	StrategyFastFixer FixStrategy = "fast-fixer"

	// StrategyDeepDebugger handles logic-level failures that need code
	// comprehension (loops, hooks, null access, runtime faults).
	StrategyDeepDebugger FixStrategy = "deep-debugger"

	// StrategyManual marks errors no automated flow should touch.
	StrategyManual FixStrategy = "manual"
)

// ClassifiedError is the classifier's verdict on one observed error string
type ClassifiedError struct {
	// Original is the error text exactly as observed
	Original string

	// Kind is the derived error family
	Kind ErrorKind

	// Severity ranks impact; critical means the sandbox is unusable
	Severity Severity

	// Fixable reports whether an automated strategy exists for this error
	Fixable bool

	// Strategy is the chosen repair flow
	Strategy FixStrategy

	// Confidence in the classification, in [0,1]
	Confidence float64

	// Hash is the stable content hash used for deduplication; two
	// observations of the same underlying error share a hash even when
	// timestamps or source positions differ
	Hash string

	// File and Line locate the error when the text carries a position
	File string
	Line int

	// Stack holds the trailing stack lines when present
	Stack string
}

// Error implements the error interface
func (e *ClassifiedError) Error() string {
	return e.Original
}

// IsAutoFixable reports whether the pipeline may attempt this error
func (e *ClassifiedError) IsAutoFixable() bool {
	return e.Fixable
}

// IsAutoFixable is the (kind, severity) fixability table: network and
// unknown errors are never auto-fixed, everything else is.
func IsAutoFixable(kind ErrorKind, severity Severity) bool {
	return StrategyFor(kind, severity) != StrategyManual
}

// StrategyFor maps a (kind, severity) pair to its repair flow.
func StrategyFor(kind ErrorKind, severity Severity) FixStrategy {
	switch kind {
	case KindImport, KindSyntax, KindStyling:
		if severity == SeverityCritical {
			return StrategyDeepDebugger
		}
		return StrategyFastFixer
	case KindInfiniteLoop, KindHookMisuse, KindNullAccess:
		return StrategyDeepDebugger
	case KindRuntime, KindBuild, KindType:
		return StrategyDeepDebugger
	default:
		return StrategyManual
	}
}
