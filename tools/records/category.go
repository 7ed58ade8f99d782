package records

import "github.com/bububa/lifelog-agent/tools"

// Category describes one table of personal records
type Category struct {
	// Name is the tool name the category is served under
	Name string
	// Table holds the records
	Table string
	// DateColumn is the day a record belongs to
	DateColumn string
	// ValueColumn is the numeric field aggregates are computed over
	ValueColumn string
	// Label names the records in tool results, e.g. "daily logs"
	Label string
	// Description explains to the router what the category holds
	Description string
}

var (
	Daily = Category{
		Name:        tools.QueryDailyLogs,
		Table:       "daily_logs",
		DateColumn:  "date",
		ValueColumn: "productivity_score",
		Label:       "daily logs",
		Description: "the user's daily logs of the last 7 days (mood, productivity, notes)",
	}
	Gym = Category{
		Name:        tools.QueryGymLogs,
		Table:       "gym_logs",
		DateColumn:  "date",
		ValueColumn: "duration_minutes",
		Label:       "gym logs",
		Description: "the user's gym sessions of the last 7 days",
	}
	Finance = Category{
		Name:        tools.QueryFinancialTransactions,
		Table:       "financial_transactions",
		DateColumn:  "transaction_date",
		ValueColumn: "transaction_amount",
		Label:       "financial transactions",
		Description: "the user's financial transactions of the last 7 days (spending, income, expenses)",
	}
	JiuJitsu = Category{
		Name:        tools.QueryJiuJitsuLogs,
		Table:       "jiu_jitsu_logs",
		DateColumn:  "date",
		ValueColumn: "duration_minutes",
		Label:       "jiu-jitsu logs",
		Description: "the user's jiu-jitsu training sessions of the last 7 days",
	}
)

// Categories lists every built-in category
func Categories() []Category {
	return []Category{Daily, Gym, Finance, JiuJitsu}
}
