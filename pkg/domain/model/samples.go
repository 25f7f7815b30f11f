package model

// SampleMessages returns the built-in demonstration messages served by the
// sample-cases endpoint and usable as triage command input.
func SampleMessages() []Message {
	return []Message{
		{
			ID:      "1",
			Subject: "Medicare Part A claim denied",
			Body:    "I am a 72-year-old constituent and my Medicare Part A claim for a hospital stay in October was denied. I believe I met all eligibility requirements. Can your office help me appeal this decision?",
		},
		{
			ID:      "2",
			Subject: "VA disability payments stopped",
			Body:    "I am a veteran in your district. My VA disability compensation payments have not arrived for two months. I have called the VA but cannot get a clear answer. Please help.",
		},
		{
			ID:      "3",
			Subject: "USCIS green card delay",
			Body:    "My wife and I filed for her green card 18 months ago and have heard nothing. Our case number is ABC123. We are worried about her status expiring. Can you inquire with USCIS?",
		},
		{
			ID:      "4",
			Subject: "Social Security retirement benefits question",
			Body:    "I am turning 65 next month and applied for Social Security retirement benefits but have not received confirmation. I need to know if my application is being processed.",
		},
	}
}
