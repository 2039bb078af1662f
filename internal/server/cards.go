package server

import (
	"github.com/quadrant-ai/quadrant/models"
)

const cardVersion = "1.0.0"

func cardProvider() models.AgentProvider {
	return models.AgentProvider{
		Name: "Quadrant AI",
		URL:  "https://github.com/quadrant-ai/quadrant",
	}
}

func researchCard(baseURL string) models.AgentCard {
	return models.AgentCard{
		Name:        "Research Agent",
		Description: "Web search and information synthesis",
		URL:         baseURL + "/research",
		Version:     cardVersion,
		Provider:    cardProvider(),
		Skills: []models.AgentSkill{
			{Name: "web_search", Description: "Search the web for information"},
			{Name: "information_synthesis", Description: "Synthesize information from sources"},
			{Name: "source_citation", Description: "Provide citations for information sources"},
		},
	}
}

func codeCard(baseURL string) models.AgentCard {
	return models.AgentCard{
		Name:        "Code Agent",
		Description: "Code generation and repository analysis",
		URL:         baseURL + "/code",
		Version:     cardVersion,
		Provider:    cardProvider(),
		Skills: []models.AgentSkill{
			{Name: "code_generation", Description: "Generate code from natural language descriptions"},
			{Name: "repository_analysis", Description: "Analyze repositories for structure and issues"},
			{Name: "code_review", Description: "Review code for potential improvements and issues"},
		},
	}
}

func dataCard(baseURL string) models.AgentCard {
	return models.AgentCard{
		Name:        "Data Transformation Agent",
		Description: "Data cleaning and format transformation (JSON/CSV/XML/YAML)",
		URL:         baseURL + "/data",
		Version:     cardVersion,
		Provider:    cardProvider(),
		Skills: []models.AgentSkill{
			{Name: "data_parsing", Description: "Parse and understand various data formats"},
			{Name: "format_conversion", Description: "Convert data between JSON, CSV, XML, YAML formats"},
			{Name: "data_cleaning", Description: "Clean and normalize messy or inconsistent data"},
		},
	}
}

func planningCard(baseURL string) models.AgentCard {
	return models.AgentCard{
		Name:        "Logic and Planning Agent",
		Description: "Strategic planning and goal decomposition into actionable steps",
		URL:         baseURL + "/planning",
		Version:     cardVersion,
		Provider:    cardProvider(),
		Skills: []models.AgentSkill{
			{Name: "goal_analysis", Description: "Analyze complex goals and objectives"},
			{Name: "task_decomposition", Description: "Break down goals into logical, sequential steps"},
			{Name: "strategic_planning", Description: "Create comprehensive plans with timelines and dependencies"},
		},
	}
}
