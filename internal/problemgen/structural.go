package problemgen

// StructuralValidator checks that required fields are present and the
// topic is one of the known templates.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem) *ValidationError {
	if p == nil {
		return &ValidationError{Validator: v.Name(), Message: "problem is nil"}
	}
	if p.ID == "" {
		return &ValidationError{Validator: v.Name(), Message: "id is empty"}
	}
	if !p.Topic.Valid() {
		return &ValidationError{Validator: v.Name(), Message: "unknown topic " + string(p.Topic)}
	}
	if p.Title != p.Topic.Title() {
		return &ValidationError{Validator: v.Name(), Message: "title does not match topic"}
	}
	if p.Question == "" {
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	}
	if p.Answer == "" {
		return &ValidationError{Validator: v.Name(), Message: "answer is empty"}
	}
	return nil
}
