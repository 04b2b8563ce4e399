package llm

// price is USD per million tokens
type price struct {
	input  float64
	output float64
}

var pricing = map[string]price{
	"llama-3.3-70b-versatile": {input: 0.59, output: 1.99},
	"llama-3.1-8b-instant":    {input: 0.05, output: 0.08},
	"mixtral-8x7b-32768":      {input: 0.24, output: 0.24},
	"gemma2-9b-it":            {input: 0.14, output: 0.14},
	"gemini-2.5-flash":        {input: 0.30, output: 2.50},
}

var fallbackPrice = price{input: 0.5, output: 1.0}

// EstimateCost returns the approximate USD cost of usage on model
func EstimateCost(model string, u Usage) float64 {
	p, ok := pricing[model]
	if !ok {
		p = fallbackPrice
	}
	return float64(u.PromptTokens)/1_000_000*p.input + float64(u.CompletionTokens)/1_000_000*p.output
}

// EstimateTokens approximates a token count at four characters per token
func EstimateTokens(text string) int {
	return len([]rune(text)) / 4
}
