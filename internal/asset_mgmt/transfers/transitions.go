package transfers

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// 各アクションが許される遷移元
var transitionMap = map[Action][]Status{
	ActionApprove:  {StatusPending},
	ActionReject:   {StatusPending},
	ActionCancel:   {StatusPending},
	ActionComplete: {StatusApproved},
}

var targetStatus = map[Action]Status{
	ActionApprove:  StatusApproved,
	ActionReject:   StatusRejected,
	ActionCancel:   StatusCancelled,
	ActionComplete: StatusCompleted,
}

func ValidTransition(action Action, from Status) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// actionFor maps the status requested through PUT /transfers/{id} to its action.
func actionFor(target Status) (Action, bool) {
	for a, s := range targetStatus {
		if s == target {
			return a, true
		}
	}
	return "", false
}
