package transcript

// Selector plans per platform, most specific markup first. The looser
// trailing rules keep extraction alive across host-site redesigns at
// the cost of precision.

// YouTubePlan matches the transcript sidebar segment list.
var YouTubePlan = Plan{
	Platform: "youtube",
	Rules: []SegmentRule{
		{
			Name:      "segment-renderer",
			Segment:   "ytd-transcript-segment-renderer",
			Timestamp: ".segment-timestamp",
			Text:      ".segment-text",
		},
		{
			Name:      "segment-class",
			Segment:   "[class*='transcript-segment']",
			Timestamp: "[class*='timestamp']",
		},
		{
			Name:      "cue-group",
			Segment:   ".cue-group",
			Timestamp: ".cue-group-start-offset",
			Text:      ".cue",
		},
	},
}

// UdemyPlan matches the lecture transcript panel. Udemy renders no
// per-cue timestamps, so they are synthesized downstream.
var UdemyPlan = Plan{
	Platform: "udemy",
	Rules: []SegmentRule{
		{
			Name:    "cue-purpose",
			Segment: "[data-purpose='transcript-cue']",
			Text:    "[data-purpose='cue-text']",
		},
		{
			Name:    "cue-class",
			Segment: "[class*='transcript--cue']",
		},
	},
}

// CourseraPlan matches the always-present transcript tab panel.
var CourseraPlan = Plan{
	Platform: "coursera",
	Rules: []SegmentRule{
		{
			Name:      "interactive-phrase",
			Segment:   ".rc-Transcript .rc-Paragraph",
			Timestamp: ".timestamp",
			Text:      ".rc-Phrase",
		},
		{
			Name:    "phrase-only",
			Segment: ".rc-Phrase",
		},
		{
			Name:    "tab-panel",
			Segment: "[role='tabpanel'] [class*='phrase']",
		},
	},
}

// DataCampPlan covers both host UI generations: the legacy side-panel
// transcript and the tabbed AI-Coach view, whose messages carry rich
// markup (code blocks) worth preserving.
var DataCampPlan = Plan{
	Platform: "datacamp",
	Rules: []SegmentRule{
		{
			Name:      "legacy-entry",
			Segment:   "[data-cy='transcript-line']",
			Timestamp: "[data-cy='transcript-timestamp']",
			Text:      "[data-cy='transcript-text']",
		},
		{
			Name:    "legacy-panel",
			Segment: ".exercise--transcript .transcript-item",
		},
		{
			Name:    "ai-coach",
			Segment: "[data-testid='ai-coach-panel'] [data-testid*='transcript']",
			Rich:    true,
		},
	},
}

// PlanFor returns the plan for a platform id, or an empty plan for
// unknown platforms (extraction then finds nothing and the activation
// flow reports the empty transcript).
func PlanFor(platform string) Plan {
	switch platform {
	case "youtube":
		return YouTubePlan
	case "udemy":
		return UdemyPlan
	case "coursera":
		return CourseraPlan
	case "datacamp":
		return DataCampPlan
	}
	return Plan{Platform: platform}
}
