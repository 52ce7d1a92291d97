package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
)

type accountList struct {
	Items []entities.Account `json:"items"`
}

func roleIn(items []entities.Account, id string) entities.AccountRole {
	for _, a := range items {
		if a.ID == id {
			return a.Role
		}
	}
	return ""
}

func TestAdminHandler_RoleTransitions(t *testing.T) {
	s := newTestServer(t)
	boss := s.register(t, "Boss", "boss@x", entities.AccountRoleSuperAdmin)
	m := s.register(t, "M", "m@x", entities.AccountRoleMember)

	w := s.do(t, http.MethodPatch, "/api/v1/admin/accounts/"+m.Account.ID+"/role", boss.AccessToken, gin.H{"role": "SUB_ADMIN"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list accountList
	decode(t, w, &list)
	assert.Equal(t, entities.AccountRoleSubAdmin, roleIn(list.Items, m.Account.ID))

	// the promoted account sees the admin list right away
	w = s.do(t, http.MethodGet, "/api/v1/admin/accounts", m.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/admin/accounts/"+m.Account.ID+"/role", boss.AccessToken, gin.H{"role": "SUPER_ADMIN"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Equal(t, entities.AccountRoleSuperAdmin, roleIn(list.Items, m.Account.ID))
	assert.Equal(t, entities.AccountRoleMember, roleIn(list.Items, boss.Account.ID))

	w = s.do(t, http.MethodGet, "/api/v1/admin/accounts", boss.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/admin/accounts/"+m.Account.ID+"/role", m.AccessToken, gin.H{"role": "MEMBER"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/admin/accounts/nope/role", m.AccessToken, gin.H{"role": "MEMBER"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/admin/accounts/"+boss.Account.ID+"/role", m.AccessToken, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_SubAdminCap(t *testing.T) {
	s := newTestServer(t)
	boss := s.register(t, "Boss", "boss@x", entities.AccountRoleSuperAdmin)
	for _, email := range []string{"s1@x", "s2@x", "s3@x", "s4@x"} {
		s.register(t, email, email, entities.AccountRoleSubAdmin)
	}
	m := s.register(t, "M", "m@x", entities.AccountRoleMember)

	w := s.do(t, http.MethodPatch, "/api/v1/admin/accounts/"+m.Account.ID+"/role", boss.AccessToken, gin.H{"role": "SUB_ADMIN"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domainerrors.CodeRoleSlotFull, errorCode(t, w))
}

func TestAdminHandler_RemoveAccount(t *testing.T) {
	s := newTestServer(t)
	boss := s.register(t, "Boss", "boss@x", entities.AccountRoleSuperAdmin)
	m := s.register(t, "M", "m@x", entities.AccountRoleMember)

	w := s.do(t, http.MethodDelete, "/api/v1/admin/accounts/"+boss.Account.ID, boss.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/admin/accounts/"+m.Account.ID, boss.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", m.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
