package clause

type LockingStrength string

const (
	LockingStrengthUpdate = LockingStrength("update")
	LockingStrengthShare  = LockingStrength("share")
)

type LockingOptions string

const (
	LockingOptionsSkipLocked = LockingOptions("skip locked")
	LockingOptionsNoWait     = LockingOptions("nowait")
)

type Locking struct {
	Strength LockingStrength
	Options  LockingOptions
}

// Build build locking clause
func (locking Locking) Build(builder Builder) {
	if locking.Strength == "" {
		return
	}

	builder.WriteString("for ")
	builder.WriteString(string(locking.Strength))

	if locking.Options != "" {
		builder.WriteByte(' ')
		builder.WriteString(string(locking.Options))
	}
}
