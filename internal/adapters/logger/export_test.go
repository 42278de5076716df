package logger

// Exported for white-box testing.
var (
	CollectMessages  = collectMessages
	FormatErrorChain = formatErrorChain
)
