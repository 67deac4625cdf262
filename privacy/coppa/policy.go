package coppa

// Writer is the COPPA surface of the network client.
type Writer interface {
	SetCOPPA(applies bool)
}

// Policy represents the COPPA child-directed signal forwarded by the mediation
// layer.
type Policy struct {
	// Applies is nil when the mediation layer has not declared a COPPA stance.
	Applies *bool
}

// Write applies the policy to the network client. An undeclared stance is
// forwarded as not applying, matching the network's default.
func (p Policy) Write(w Writer) error {
	if p.Applies == nil {
		w.SetCOPPA(false)
		return nil
	}
	w.SetCOPPA(*p.Applies)
	return nil
}
