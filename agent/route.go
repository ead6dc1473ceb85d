package agent

import (
	"github.com/agrovista/finsight/classify"
	"github.com/agrovista/finsight/warehouse"
)

// Strategy selects how a response is produced after the warehouse probe.
type Strategy string

const (
	// KnowledgeBaseBudget answers budget comparisons from the static dataset.
	KnowledgeBaseBudget Strategy = "knowledge_base_budget"
	// KnowledgeBaseAction renders the standing action-plan recommendation.
	KnowledgeBaseAction Strategy = "knowledge_base_action"
	// KnowledgeBaseCrop renders the driver-tree result for a crop question.
	KnowledgeBaseCrop Strategy = "knowledge_base_crop"
	// KnowledgeBaseFinancialPerformance renders the entity performance summary.
	KnowledgeBaseFinancialPerformance Strategy = "knowledge_base_financial"
	// HybridWarehouseAndKB blends warehouse rows with knowledge-base context.
	HybridWarehouseAndKB Strategy = "hybrid_warehouse_kb"
	// WarehouseOnly is the generic path, typically an empty-result narrative.
	WarehouseOnly Strategy = "warehouse_only"
)

// route picks the response strategy from the probe outcome and topic flags.
// The clause order encodes precedence: budget beats action beats crop beats
// financial performance when the probe is unusable, and any usable probe
// routes to the hybrid path regardless of flags.
func route(flags classify.Flags, probe *warehouse.ProbeResult, hasDriverTree bool) Strategy {
	switch {
	case probe.Unusable() && flags.BudgetComparison:
		return KnowledgeBaseBudget
	case probe.Unusable() && flags.ActionRequest:
		return KnowledgeBaseAction
	case probe.Unusable() && flags.CropQuery && hasDriverTree:
		return KnowledgeBaseCrop
	case probe.Unusable() && flags.FinancialPerformance:
		return KnowledgeBaseFinancialPerformance
	case !probe.Unusable():
		return HybridWarehouseAndKB
	default:
		return WarehouseOnly
	}
}
