package analysis

import (
	"fmt"

	"github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

// Static lookup table, human-authored strings. Lookup order:
// category_usertype_trend -> category_usertype -> generic fallback.
var recommendations = map[string]string{
	"performance_enterprise_accelerating": "URGENT: escalate to engineering leadership; schedule dedicated performance war-room with affected enterprise accounts this week.",
	"performance_enterprise":              "Prioritize performance profiling for enterprise workloads; notify account managers of affected customers.",
	"performance_developer":               "Add performance regression benchmarks to CI and publish a known-issues page for developers.",
	"reliability_enterprise_accelerating": "URGENT: open an incident review; assign an SRE owner and send proactive status updates to enterprise customers.",
	"reliability_enterprise":              "Review error budgets with the SRE team and brief enterprise support on current mitigations.",
	"reliability_developer":               "Triage crash reports from developer accounts and improve error messages in the SDK.",
	"security_enterprise":                 "Engage the security team immediately; prepare customer-facing disclosure guidance before the next release.",
	"security_developer":                  "Route reports to the security triage queue and acknowledge reporters within 24 hours.",
	"data-loss_enterprise":                "Treat as a sev-1 candidate: verify backups for affected tenants and involve the data platform team now.",
	"billing_enterprise_accelerating":     "Escalate to billing engineering and finance; audit recent invoice runs for enterprise plans.",
	"billing_enterprise":                  "Have account managers reach out to affected enterprise customers with corrected invoices.",
	"billing_pro":                         "Audit the pro-plan billing flow for the reported edge cases and update the FAQ.",
	"ux_developer":                        "Collect the reported friction points into the design backlog and schedule usability sessions.",
}

// Recommend maps (category, user_type, trend) to an action string
func Recommend(category string, userType feedback.UserType, trend Trend) string {
	if r, ok := recommendations[fmt.Sprintf("%s_%s_%s", category, userType, trend)]; ok {
		return r
	}
	if r, ok := recommendations[fmt.Sprintf("%s_%s", category, userType)]; ok {
		return r
	}
	return "Monitor feedback volume and add to the product backlog for the next planning cycle."
}
