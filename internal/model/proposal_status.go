package model

type ProposalStatus string

const (
	ProposalStatusDraft               ProposalStatus = "draft"
	ProposalStatusInPreparation       ProposalStatus = "in_preparation"
	ProposalStatusSubmitted           ProposalStatus = "submitted"
	ProposalStatusUnderReview         ProposalStatus = "under_review"
	ProposalStatusPendingApproval     ProposalStatus = "pending_approval"
	ProposalStatusPendingClientReview ProposalStatus = "pending_client_review"
	ProposalStatusRequiresRevision    ProposalStatus = "requires_revision"
	ProposalStatusApproved            ProposalStatus = "approved"
	ProposalStatusRejected            ProposalStatus = "rejected"
	ProposalStatusWithdrawn           ProposalStatus = "withdrawn"
	ProposalStatusArchived            ProposalStatus = "archived"
	ProposalStatusAcceptedByClient    ProposalStatus = "accepted_by_client"
	ProposalStatusInImplementation    ProposalStatus = "in_implementation"
	ProposalStatusCompleted           ProposalStatus = "completed"
)

func (s ProposalStatus) Valid() bool {
	_, ok := ProposalTransitions[s]
	return ok
}

// ProposalTransitions is the allowed next-states table of the proposal
// lifecycle. A status update whose target is not in the current state's set
// is rejected; a no-op (target == current) bypasses the table. archived is
// terminal.
var ProposalTransitions = map[ProposalStatus][]ProposalStatus{
	ProposalStatusDraft: {
		ProposalStatusInPreparation, ProposalStatusSubmitted,
		ProposalStatusWithdrawn, ProposalStatusArchived,
	},
	ProposalStatusInPreparation: {
		ProposalStatusDraft, ProposalStatusSubmitted,
		ProposalStatusWithdrawn, ProposalStatusArchived,
	},
	ProposalStatusSubmitted: {
		ProposalStatusUnderReview, ProposalStatusRequiresRevision,
		ProposalStatusWithdrawn, ProposalStatusRejected,
	},
	ProposalStatusUnderReview: {
		ProposalStatusPendingApproval, ProposalStatusPendingClientReview,
		ProposalStatusRequiresRevision, ProposalStatusRejected,
	},
	ProposalStatusPendingApproval: {
		ProposalStatusApproved, ProposalStatusRequiresRevision, ProposalStatusRejected,
	},
	ProposalStatusPendingClientReview: {
		ProposalStatusAcceptedByClient, ProposalStatusRequiresRevision, ProposalStatusRejected,
	},
	ProposalStatusRequiresRevision: {
		ProposalStatusDraft, ProposalStatusInPreparation,
		ProposalStatusSubmitted, ProposalStatusWithdrawn,
	},
	ProposalStatusApproved: {
		ProposalStatusAcceptedByClient, ProposalStatusInImplementation, ProposalStatusArchived,
	},
	ProposalStatusAcceptedByClient: {
		ProposalStatusInImplementation, ProposalStatusCompleted,
	},
	ProposalStatusInImplementation: {
		ProposalStatusCompleted,
	},
	ProposalStatusRejected: {
		ProposalStatusArchived,
	},
	ProposalStatusWithdrawn: {
		ProposalStatusArchived,
	},
	ProposalStatusCompleted: {
		ProposalStatusArchived,
	},
	ProposalStatusArchived: {},
}

// CanTransition reports whether the table allows moving from one status to
// another. Equal statuses are not a transition.
func CanTransition(from, to ProposalStatus) bool {
	for _, allowed := range ProposalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the allowed next states for a status, for use
// in rejection messages.
func AllowedTransitions(from ProposalStatus) []ProposalStatus {
	return ProposalTransitions[from]
}
