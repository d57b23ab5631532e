package mcpadapter

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func searchPassagesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_passages",
		Description: "Search the indexed legal document corpus and return the top matching passages with relevance scores",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or keywords)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of passages to return (1-50)",
					"default":     8,
					"minimum":     1,
					"maximum":     50,
				},
			},
			Required: []string{"query"},
		},
	}
}

func askAssistantTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ask_assistant",
		Description: "Ask the legal assistant a question answered from the indexed documents",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Answer style",
					"enum":        []string{"normal", "summary", "quiz", "eli5", "drafting"},
					"default":     "normal",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of grounding passages to retrieve",
					"default":     8,
					"minimum":     1,
					"maximum":     50,
				},
			},
			Required: []string{"question"},
		},
	}
}

func rebuildIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rebuild_index",
		Description: "Discard the cached retrieval index and rebuild it from the current corpus",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
