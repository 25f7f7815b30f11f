package usecase

// Exports for white-box tests.
var (
	StripCodeFence     = stripCodeFence
	DecodeJSONResponse = decodeJSONResponse
)
