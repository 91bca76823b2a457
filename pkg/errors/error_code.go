package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidSignal        ErrorCode = 103
	ErrCodeInvalidMarketEvent   ErrorCode = 104
	ErrCodeMissingParameter     ErrorCode = 105

	// Feed errors (200-299)
	ErrCodeFeedUnhealthy    ErrorCode = 200
	ErrCodeStreamConnection ErrorCode = 201
	ErrCodeStreamDecode     ErrorCode = 202

	// Order lifecycle errors (300-399)
	ErrCodeInvalidOrderTransition ErrorCode = 300
	ErrCodeOrderTerminal          ErrorCode = 301
	ErrCodeDuplicateOrder         ErrorCode = 302

	// Portfolio errors (400-499)
	ErrCodeUnknownOrder      ErrorCode = 400
	ErrCodeUnknownInstrument ErrorCode = 401
	ErrCodeCashInvariant     ErrorCode = 402
	ErrCodeOverfill          ErrorCode = 403
	ErrCodeTradeMismatch     ErrorCode = 404
	ErrCodePositionNotFound  ErrorCode = 405

	// Execution errors (500-599)
	ErrCodeExecutionFailed       ErrorCode = 500
	ErrCodeExecutionConnectivity ErrorCode = 501
	ErrCodeInvalidExecutionOrder ErrorCode = 502

	// Engine errors (600-699)
	ErrCodeEngineNotReady  ErrorCode = 600
	ErrCodeEngineHalted    ErrorCode = 601
	ErrCodeCallbackFailed  ErrorCode = 602
	ErrCodeStrategyFailure ErrorCode = 603

	// Repository errors (700-799)
	ErrCodeJournalInitFailed  ErrorCode = 700
	ErrCodeJournalWriteFailed ErrorCode = 701
	ErrCodeJournalQueryFailed ErrorCode = 702
)
