// ABOUTME: MCP tool definitions and registration for the meal assistant
// ABOUTME: Defines JSON schemas for the seven tools and binds them to handlers
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var userIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "User the call acts for (defaults to the configured user)",
}

var stringList = map[string]interface{}{"type": "string"}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, handlers *Handlers) {
	// 1. handle_turn - Start or continue a conversation about a meal
	server.AddTool(mcp.Tool{
		Name:        "handle_turn",
		Description: "Send a meal, a list of ingredients, or a photo and get healthier suggestions. Returns follow-up questions when the input is unclear.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation id; omit to start a new session",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "What the user wrote, e.g. 'mac and cheese' or 'chicken, rice, broccoli'",
				},
				"image_paths": map[string]interface{}{
					"type":        "array",
					"items":       stringList,
					"description": "Local paths of meal or ingredient photos",
				},
				"mode_hint": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"auto", "meal", "ingredients"},
					"description": "What the input is, if known",
					"default":     "auto",
				},
				"max_time_minutes": map[string]interface{}{
					"type":        "number",
					"description": "Upper bound on cooking time",
				},
			},
		},
	}, handlers.HandleTurn)

	// 2. select_suggestion - Turn a suggestion into a recipe
	server.AddTool(mcp.Tool{
		Name:        "select_suggestion",
		Description: "Choose one of the pending suggestions and get the full recipe. The meal is saved for feedback.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session returned by handle_turn",
				},
				"suggestion_id": map[string]interface{}{
					"type":        "string",
					"description": "Id of the chosen suggestion, e.g. sug_1",
				},
			},
			Required: []string{"session_id", "suggestion_id"},
		},
	}, handlers.SelectSuggestion)

	// 3. modify_suggestions - Tweak the pending request
	server.AddTool(mcp.Tool{
		Name:        "modify_suggestions",
		Description: "Adjust the current request (e.g. 'add chickpeas', 'no oven') and get new suggestions.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session returned by handle_turn",
				},
				"modification": map[string]interface{}{
					"type":        "string",
					"description": "The change to apply",
				},
			},
			Required: []string{"session_id", "modification"},
		},
	}, handlers.ModifySuggestions)

	// 4. submit_feedback - Rate a cooked meal
	server.AddTool(mcp.Tool{
		Name:        "submit_feedback",
		Description: "Record whether the user liked a meal. Feedback updates learned preferences and can be given once per meal.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
				"meal_id": map[string]interface{}{
					"type":        "string",
					"description": "Meal returned by select_suggestion",
				},
				"liked": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the user liked it",
				},
				"cooked_again": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the user would cook it again",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       stringList,
					"description": "Feedback tags such as too_spicy or easy",
				},
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "Free-form notes",
				},
			},
			Required: []string{"meal_id", "liked"},
		},
	}, handlers.SubmitFeedback)

	// 5. save_profile - Replace the user's profile
	server.AddTool(mcp.Tool{
		Name:        "save_profile",
		Description: "Save the user's dietary profile. Allergies already on file are always kept.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":      userIDProperty,
				"display_name": map[string]interface{}{"type": "string"},
				"diet_style":   map[string]interface{}{"type": "string", "description": "e.g. vegetarian, mediterranean"},
				"goals":        map[string]interface{}{"type": "array", "items": stringList},
				"allergies":    map[string]interface{}{"type": "array", "items": stringList},
				"dislikes":     map[string]interface{}{"type": "array", "items": stringList},
				"likes":        map[string]interface{}{"type": "array", "items": stringList},
				"cooking_skill": map[string]interface{}{
					"type": "string",
					"enum": []string{"beginner", "intermediate", "advanced"},
				},
				"time_per_meal_minutes": map[string]interface{}{"type": "number"},
				"budget": map[string]interface{}{
					"type": "string",
					"enum": []string{"low", "medium", "high"},
				},
				"household_size": map[string]interface{}{"type": "number"},
				"equipment":      map[string]interface{}{"type": "array", "items": stringList},
				"notes":          map[string]interface{}{"type": "string"},
			},
		},
	}, handlers.SaveProfile)

	// 6. get_user_summary - Profile line and learned preferences
	server.AddTool(mcp.Tool{
		Name:        "get_user_summary",
		Description: "Get the user's profile summary and strongest learned preferences.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
			},
		},
	}, handlers.GetUserSummary)

	// 7. get_history - Past meals with feedback
	server.AddTool(mcp.Tool{
		Name:        "get_history",
		Description: "List the user's past meals, newest first, with any feedback given.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Page size, 1-100 (default: 50)",
					"default":     50,
				},
				"offset": map[string]interface{}{
					"type":        "number",
					"description": "Items to skip",
					"default":     0,
				},
			},
		},
	}, handlers.GetHistory)
}
