package stats

import "github.com/verte-zerg/mathdrill/internal/model"

// AggregateOperations totals results per operation in model.Operations order.
// Operations that never occurred are omitted.
func AggregateOperations(sessions []model.Session) []model.OperationAggregate {
	byOp := map[model.Operation]*model.OperationAggregate{}
	for _, s := range sessions {
		for _, r := range s.Results {
			agg, ok := byOp[r.Question.Operation]
			if !ok {
				agg = &model.OperationAggregate{Operation: r.Question.Operation}
				byOp[r.Question.Operation] = agg
			}
			agg.Count++
			agg.Errors += r.ErrorCount
			agg.TimeSec += r.TimeSec
		}
	}
	out := make([]model.OperationAggregate, 0, len(byOp))
	for _, op := range model.Operations {
		if agg, ok := byOp[op]; ok {
			out = append(out, *agg)
		}
	}
	return out
}

// OperationLabel names an operation for tables.
func OperationLabel(op model.Operation) string {
	switch op {
	case model.OpAdd:
		return "Addition"
	case model.OpSubtract:
		return "Subtraction"
	default:
		return string(op)
	}
}
