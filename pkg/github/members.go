package github

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// MemberLister enumerates every member of an organization
type MemberLister struct {
	client APIClient
	logger logrus.FieldLogger
}

// NewMemberLister creates a lister on top of the given API client
func NewMemberLister(client APIClient, logger logrus.FieldLogger) *MemberLister {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &MemberLister{client: client, logger: logger}
}

// List returns the logins of all members of org in API page order. Members
// without a login are skipped. Enumeration is all-or-nothing: an error on any
// page discards the pages already fetched.
func (l *MemberLister) List(ctx context.Context, org string) ([]string, error) {
	var members []string

	for page := 1; ; page++ {
		result, err := l.client.ListOrgMembers(ctx, org, page)
		if err != nil {
			l.logger.WithFields(logrus.Fields{
				"org":  org,
				"page": page,
			}).WithError(err).Debug("member enumeration aborted")
			return nil, err
		}

		for _, m := range result.Items {
			if m.Login != "" {
				members = append(members, m.Login)
			}
		}

		if !result.HasMore {
			break
		}
	}

	l.logger.WithFields(logrus.Fields{
		"org":     org,
		"members": len(members),
	}).Debug("member enumeration complete")

	return members, nil
}
