package logic

import (
	"math/rand/v2"
	"time"
)

// MessagePicker chooses the completion message for a finished run.
type MessagePicker func(rng *rand.Rand, elapsed time.Duration) string

// CandleMessages is the flavor rotation shown when the candle burns out.
var CandleMessages = []string{
	"The flame has faded…",
	"Darkness reclaims the light.",
	"The candle's watch has ended.",
	"Time melted away with the wax.",
}

// RandomCandleMessage picks uniformly from CandleMessages.
func RandomCandleMessage(rng *rand.Rand, _ time.Duration) string {
	return CandleMessages[rng.IntN(len(CandleMessages))]
}

// FocusMessage picks a message by how long the focus session lasted.
func FocusMessage(_ *rand.Rand, elapsed time.Duration) string {
	switch minutes := int(elapsed / time.Minute); {
	case minutes < 5:
		return "A brief haunting... but every moment counts."
	case minutes < 15:
		return "The spirits approve of your focus."
	case minutes < 30:
		return "Impressive dedication. The chamber glows brighter."
	default:
		return "Legendary focus! The ghosts bow in respect."
	}
}
