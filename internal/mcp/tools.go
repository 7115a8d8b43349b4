package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var formatProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"json", "markdown"},
	"description": "Result format: structured JSON (default) or a readable Markdown report",
}

var saveProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Store the analysis in history (defaults to the server setting)",
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "analyse_job_ad",
		Description: "Analyse job ad text for biased or exclusionary language. Returns an inclusivity score from 0 to 100, a grade, flagged terms with neutral alternatives and recommendations.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Full text of the job ad",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Optional job title used when saving to history",
				},
				"format": formatProperty,
				"save":   saveProperty,
			},
			"required": []string{"text"},
		},
	},
	{
		Name:        "analyse_url",
		Description: "Download a job posting (LinkedIn, Indeed, Glassdoor or any careers page) and analyse its description.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "http(s) URL of the job posting",
				},
				"format": formatProperty,
				"save":   saveProperty,
			},
			"required": []string{"url"},
		},
	},
	{
		Name:        "list_terms",
		Description: "List the bias dictionary: terms, their category, severity and suggested alternatives.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"gender-coded", "ageist", "ableist", "culture-fit", "socioeconomic", "racial"},
					"description": "Only list terms in this category",
				},
				"severity": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"critical", "high", "medium", "low"},
					"description": "Only list terms with this severity",
				},
			},
		},
	},
	{
		Name:        "get_history",
		Description: "Get previously saved analyses. Pass an id for one analysis with its full result, or filter the list by grade and age.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Analysis ID",
				},
				"grade": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"excellent", "good", "fair", "poor"},
					"description": "Filter by grade",
				},
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "Only include analyses from the last N days",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 20)",
				},
			},
		},
	},
}
