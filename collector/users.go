package collector

import (
	"os/user"
	"strconv"
	"sync"
)

// Users caches uid to login name lookups.
type Users struct {
	mu     sync.Mutex
	names  map[int]string
	lookup func(uid string) (*user.User, error)
}

// NewUsers returns an empty cache backed by the system user database.
func NewUsers() *Users {
	return &Users{names: make(map[int]string), lookup: user.LookupId}
}

// Name returns the login name for uid, or the number when unknown.
func (u *Users) Name(uid int) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if name, ok := u.names[uid]; ok {
		return name
	}
	name := strconv.Itoa(uid)
	if u.lookup != nil {
		if usr, err := u.lookup(name); err == nil {
			name = usr.Username
		}
	}
	u.names[uid] = name
	return name
}

// LookupUID resolves a login name or numeric id to a uid.
func LookupUID(name string) (int, error) {
	if uid, err := strconv.Atoi(name); err == nil && uid >= 0 {
		return uid, nil
	}
	usr, err := user.Lookup(name)
	if err != nil {
		return -1, err
	}
	return strconv.Atoi(usr.Uid)
}
