package services

import (
	"math"

	"brief-portal/internal/models"
)

const recentSubmissionLimit = 5

// ComputeDashboardStats summarises the template preview list. Recent
// submissions are the last five in list order, newest first.
func ComputeDashboardStats(templates []models.TemplateSubmission) models.DashboardStats {
	stats := models.DashboardStats{
		TotalTemplates:    len(templates),
		RecentSubmissions: []models.RecentSubmission{},
	}

	var all []models.RecentSubmission
	for _, t := range templates {
		stats.TotalSubmissions += len(t.Submissions)
		if len(t.Submissions) > 0 {
			stats.TemplatesWithSubmissions++
		}
		for _, sub := range t.Submissions {
			all = append(all, models.RecentSubmission{
				TemplateName: t.TemplateName,
				UserName:     sub.Name,
				UserEmail:    sub.Email,
			})
		}
	}

	if stats.TotalTemplates > 0 {
		avg := float64(stats.TotalSubmissions) / float64(stats.TotalTemplates)
		stats.AverageSubmissionsPerTemplate = math.Round(avg*10) / 10
	}

	start := len(all) - recentSubmissionLimit
	if start < 0 {
		start = 0
	}
	for i := len(all) - 1; i >= start; i-- {
		stats.RecentSubmissions = append(stats.RecentSubmissions, all[i])
	}

	return stats
}
