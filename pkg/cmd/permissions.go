package cmd

// PrivilegeType says whether a privilege targets a role or a single user.
// Values match the platform's command permission types.
type PrivilegeType uint8

const (
	PrivilegeRole PrivilegeType = 1
	PrivilegeUser PrivilegeType = 2
)

func (t PrivilegeType) String() string {
	switch t {
	case PrivilegeRole:
		return "role"
	case PrivilegeUser:
		return "user"
	}
	return "unknown"
}

// Privilege overrides a command's default availability for one role or user.
type Privilege struct {
	Type    PrivilegeType
	ID      string
	Enabled bool
}

func EnableRole(id string) Privilege  { return Privilege{Type: PrivilegeRole, ID: id, Enabled: true} }
func DisableRole(id string) Privilege { return Privilege{Type: PrivilegeRole, ID: id} }
func EnableUser(id string) Privilege  { return Privilege{Type: PrivilegeUser, ID: id, Enabled: true} }
func DisableUser(id string) Privilege { return Privilege{Type: PrivilegeUser, ID: id} }

// Invoker is who triggered an event and where.
type Invoker struct {
	UserID  string
	GuildID string
	RoleIDs []string
}

func (inv Invoker) hasRole(id string) bool {
	for _, r := range inv.RoleIDs {
		if r == id {
			return true
		}
	}
	return false
}

// Authorizer decides whether an invoker may run a command.
type Authorizer interface {
	CanExecute(d *Descriptor, inv Invoker, origin Origin) bool
}

// PermissionResolver is the default Authorizer.
//
// Commands available to everyone always run. Interaction invocations are
// allowed too, since the platform already enforced the exported permissions.
// Otherwise the guild's privileges are walked in order: a user entry decides
// immediately, role entries the invoker holds are layered with the last one
// winning. Without any match the default availability applies.
type PermissionResolver struct{}

func (PermissionResolver) CanExecute(d *Descriptor, inv Invoker, origin Origin) bool {
	if d.AvailableToEveryone() || origin == OriginInteraction {
		return true
	}

	allowed := d.AvailableToEveryone()
	for _, p := range d.Privileges(inv.GuildID) {
		switch p.Type {
		case PrivilegeUser:
			if p.ID == inv.UserID {
				return p.Enabled
			}
		case PrivilegeRole:
			if inv.hasRole(p.ID) {
				allowed = p.Enabled
			}
		}
	}
	return allowed
}
