package infinidash

import (
	"strings"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
)

func mapDashToDomain(summary DashSummary) *domain.Dash {
	id := summary.DashId
	if id == "" {
		// Older API revisions only return the ARN.
		id = summary.DashArn
	}
	return &domain.Dash{
		ID:          id,
		ARN:         summary.DashArn,
		Name:        summary.DashName,
		Status:      domain.DashStatus(strings.ToLower(summary.DashStatus)),
		CreatedTime: summary.CreatedTime,
		Config:      summary.DashConfig,
		Tags:        summary.Tags,
	}
}
