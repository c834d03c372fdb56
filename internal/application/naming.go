package application

import "time"

const (
	DefaultFixedName = "kayit.wav"
	DefaultPrefix    = "recording_"
	nameLayout       = "20060102_150405"
)

// Naming decides the file name a take is saved and uploaded under.
type Naming struct {
	UseFixedName bool
	FixedName    string
	Prefix       string
}

func (n Naming) NameFor(t time.Time) string {
	if n.UseFixedName {
		if n.FixedName == "" {
			return DefaultFixedName
		}
		return n.FixedName
	}
	return n.Prefix + t.Format(nameLayout) + ".wav"
}
