package cli

import "time"

// durationFlag is a duration flag that remembers whether it was set
type durationFlag struct {
	value time.Duration
	set   bool
}

func (d *durationFlag) String() string {
	if !d.set {
		return ""
	}
	return d.value.String()
}

func (d *durationFlag) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.value = v
	d.set = true
	return nil
}

func (d *durationFlag) Type() string {
	return "duration"
}

// ptr returns nil when the flag was not given
func (d *durationFlag) ptr() *time.Duration {
	if !d.set {
		return nil
	}
	v := d.value
	return &v
}
