package questions

import "skyparty/internal/invite/models"

// DefaultCatalogue is the built-in question bank, used when no bank file is configured.
func DefaultCatalogue() []models.ChallengeQuestion {
	return []models.ChallengeQuestion{
		{Question: "What is the name of the first Sky Party™ flight?", Answer: "Lagos Elite", Club: "Lagos Elite"},
		{Question: "Who hosted the inaugural Sky Party™?", Answer: "Victor Ade", Club: "Victor Ade Club"},
		{Question: "What is the tail number of the Sky Party™ jet?", Answer: "5N-SKY"},
		{Question: "What color is the Sky Party™ jet interior?", Answer: "Midnight Black"},
		{Question: "Which city hosted Sky Party™ Season 1?", Answer: "Abuja", Club: "Victor Ade Club"},
		{Question: "What is the name of the Sky Party™ private lounge?", Answer: "Cloud 9"},
		{Question: "What is the official Sky Party™ hashtag?", Answer: "#FlyElite"},
		{Question: "Which artist performed at Sky Party™ Launch?", Answer: "Burna Boy"},
		{Question: "What is the Sky Party™ dress code?", Answer: "Black Tie Only"},
		{Question: "What is the maximum altitude of a Sky Party™ flight?", Answer: "FL450"},
	}
}
