package llm

import (
	"context"
	"strings"
)

type cannedReply struct {
	keywords []string
	reply    string
}

var cannedReplies = []cannedReply{
	{[]string{"plant", "planting"}, "The best planting time depends on your local climate and the crop. For corn in temperate regions, late spring when soil temperatures reach 60°F (16°C) is ideal. Make sure to check your local frost dates and soil conditions before planting."},
	{[]string{"soil"}, "Improving soil quality involves regular testing, adding organic matter (like compost), practicing crop rotation, and using cover crops. Maintaining proper pH levels and avoiding soil compaction are also important practices."},
	{[]string{"fertilizer"}, "For wheat, a balanced NPK fertilizer with emphasis on nitrogen is typically recommended. Apply nitrogen in split applications, at planting and again at the jointing stage. Soil tests can help determine exact nutrient needs for your specific fields."},
	{[]string{"disease", "pest"}, "Preventing crop diseases starts with good field hygiene, crop rotation, and selecting resistant varieties. Regular monitoring, proper spacing for air circulation, and targeted treatments when necessary are key practices. Would you like information about a specific crop disease?"},
	{[]string{"irrigation", "water"}, "For soybeans, the critical irrigation periods are during flowering and pod development. Generally, soybeans need about 1-1.5 inches of water per week. Using soil moisture sensors can help determine the optimal timing for irrigation."},
}

const cannedFallback = "That's a good question about farming. To give you the most accurate information, I'd need to know more about your specific location, climate, and growing conditions. Can you provide more details?"

// Canned answers from a fixed keyword table. It needs no API key and is
// used for offline runs and tests.
type Canned struct{}

func NewCanned() *Canned { return &Canned{} }

func (*Canned) Name() string { return "canned" }

// Chat answers the last user message.
func (*Canned) Chat(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var question string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			question = strings.ToLower(messages[i].Content)
			break
		}
	}
	for _, c := range cannedReplies {
		for _, k := range c.keywords {
			if strings.Contains(question, k) {
				return c.reply, nil
			}
		}
	}
	return cannedFallback, nil
}
