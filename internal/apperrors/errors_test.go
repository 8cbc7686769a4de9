package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_KindOf(t *testing.T) {
	err := NotFoundf("project %d was not found", 42)

	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, "project 42 was not found", err.Error())

	// Kind survives wrapping.
	wrapped := fmt.Errorf("loading project: %w", MembershipRulef("capacity exceeded"))
	require.Equal(t, KindMembershipRule, KindOf(wrapped))

	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	require.Equal(t, KindUnknown, KindOf(nil))
}
