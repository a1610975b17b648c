package team

import (
	"errors"
	"fmt"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Member struct {
	ID   string
	Name string
	Role Role
}

// ErrUnauthorized rejects edits and deletes of time logs the actor
// neither owns nor administers.
var ErrUnauthorized = errors.New("not allowed to modify this time log")

// CanManageLog reports whether the actor may edit or delete a log
// owned by ownerID: owners manage their own logs, admins manage all.
func CanManageLog(actor Member, ownerID string) bool {
	return actor.Role == RoleAdmin || actor.ID == ownerID
}

// AuthorizeLogEdit is CanManageLog as a policy check the calling layer
// runs before touching the ledger.
func AuthorizeLogEdit(actor Member, ownerID string) error {
	if !CanManageLog(actor, ownerID) {
		return fmt.Errorf("member %s: %w", actor.ID, ErrUnauthorized)
	}
	return nil
}

// Directory is the in-memory member list. Order is preserved; the
// workload aggregator's stable sort relies on it.
type Directory struct {
	members []Member
}

func NewDirectory(members ...Member) *Directory {
	d := &Directory{}
	for _, m := range members {
		d.Add(m)
	}
	return d
}

func (d *Directory) Add(m Member) {
	for i := range d.members {
		if d.members[i].ID == m.ID {
			d.members[i] = m
			return
		}
	}
	d.members = append(d.members, m)
}

func (d *Directory) Get(id string) (Member, bool) {
	for _, m := range d.members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

func (d *Directory) All() []Member {
	out := make([]Member, len(d.members))
	copy(out, d.members)
	return out
}
