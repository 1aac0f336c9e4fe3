package ai

// EnhanceResult is the outcome of a single text enhancement call.
type EnhanceResult struct {
	// Text is the enhanced text. If the provider returned nothing usable,
	// implementations return an error instead of an empty Text.
	Text string

	// Changes describes what the enhancement altered, as short labels.
	// Empty when the provider returned the input unchanged.
	Changes []string

	// Cost is the estimated provider cost of the call in USD.
	Cost float64

	// TokensUsed is the total token count the provider reported for the call.
	TokensUsed int
}
