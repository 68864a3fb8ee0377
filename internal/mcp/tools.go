package mcp

import "github.com/mark3labs/mcp-go/mcp"

var suggestTeamTool = mcp.NewTool("suggest_team",
	mcp.WithDescription("Recommend a 5-hero Overwatch team composition for a map and enemy team, with counter strategy, synergies and alternatives."),
	mcp.WithString("map_name",
		mcp.Required(),
		mcp.Description("Name of the map, e.g. \"King's Row\""),
	),
	mcp.WithArray("enemy_team",
		mcp.Description("Enemy hero names"),
		mcp.WithStringItems(),
	),
	mcp.WithArray("current_team",
		mcp.Description("Heroes already locked in on your team"),
		mcp.WithStringItems(),
	),
	mcp.WithString("difficulties",
		mcp.Description("What the team is struggling with"),
	),
)

var heroCountersTool = mcp.NewTool("hero_counters",
	mcp.WithDescription("Explain which heroes counter a given hero and how to play against it."),
	mcp.WithString("hero_name",
		mcp.Required(),
		mcp.Description("Hero to counter"),
	),
)

var searchKnowledgeTool = mcp.NewTool("search_knowledge",
	mcp.WithDescription("Search the indexed hero and map knowledge semantically."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithString("collection",
		mcp.Description("Collection to search (default heroes)"),
		mcp.Enum("heroes", "maps"),
	),
	mcp.WithString("role",
		mcp.Description("Only return heroes of this role"),
		mcp.Enum("tank", "damage", "support"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)

var getDocumentTool = mcp.NewTool("get_document",
	mcp.WithDescription("Get the full knowledge document for one hero or map."),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Enum("hero", "map"),
	),
	mcp.WithString("key",
		mcp.Required(),
		mcp.Description("Hero key (e.g. \"soldier-76\") or map file name (e.g. \"kings-row\")"),
	),
)
