package pipeline

import (
	"strings"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// roleKeywords maps each role family to the technical vocabulary a résumé
// for that family is expected to contain. The pre-filter short-circuits the
// scoring oracle for résumés matching none of these, which keeps obviously
// irrelevant submissions cheap and deterministic.
var roleKeywords = map[types.RoleCategory][]string{
	types.RoleBackend: {
		"api", "database", "sql", "server", "microservice", "rest", "grpc",
		"backend", "java", "python", "golang", " go ", "node", "scala", "kafka",
		"redis", "postgres", "mysql", "mongodb", "docker", "kubernetes",
	},
	types.RoleFrontend: {
		"javascript", "typescript", "react", "vue", "angular", "css", "html",
		"frontend", "webpack", "vite", "ui", "ux", "responsive", "accessibility",
		"redux", "next.js", "nextjs", "tailwind",
	},
	types.RoleDataAnalyst: {
		"sql", "excel", "tableau", "power bi", "powerbi", "python", "pandas",
		"analytics", "dashboard", "etl", "data warehouse", "statistics",
		"visualization", "bigquery", "looker", "reporting",
	},
	types.RoleML: {
		"machine learning", "deep learning", "tensorflow", "pytorch",
		"scikit", "sklearn", "model", "neural", "nlp", "feature engineering",
		"python", "pandas", "numpy", "mlops", "training", "inference",
	},
	types.RoleDevOps: {
		"kubernetes", "docker", "terraform", "ansible", "ci/cd", "cicd",
		"jenkins", "aws", "gcp", "azure", "linux", "monitoring", "prometheus",
		"grafana", "infrastructure", "helm", "pipeline", "deployment",
	},
}

// CountRoleKeywords counts how many role-family keywords appear in the
// extracted résumé text (case-insensitive substring match).
func CountRoleKeywords(text string, role types.RoleCategory) int {
	keywords, ok := roleKeywords[role]
	if !ok {
		return 0
	}
	lower := " " + strings.ToLower(text) + " "
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}
	return matches
}

// ResolveRoleCategory maps a free-form candidate role string onto a role
// family, preferring the job posting's category when available.
func ResolveRoleCategory(candidateRole string, job *types.Job) types.RoleCategory {
	if job != nil {
		return job.Role
	}

	lower := strings.ToLower(candidateRole)
	switch {
	case strings.Contains(lower, "front"):
		return types.RoleFrontend
	case strings.Contains(lower, "data"):
		return types.RoleDataAnalyst
	case strings.Contains(lower, "ml") || strings.Contains(lower, "machine learning"):
		return types.RoleML
	case strings.Contains(lower, "devops") || strings.Contains(lower, "sre") || strings.Contains(lower, "infra"):
		return types.RoleDevOps
	default:
		return types.RoleBackend
	}
}
