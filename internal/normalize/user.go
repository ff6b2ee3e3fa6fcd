package normalize

import (
	"github.com/onfly/isp-portal-bff-go/internal/domain"
)

// User assembles the canonical user from an already-stripped document and
// its mapped contracts. The display name comes from the first contract's
// company name, matching upstream behavior; contracts keep upstream order.
func User(documentID string, contracts []domain.Contract) domain.User {
	name := ""
	if len(contracts) > 0 {
		name = contracts[0].ClientName
	}
	return domain.User{
		DocumentID: documentID,
		Name:       name,
		Contracts:  contracts,
	}
}
