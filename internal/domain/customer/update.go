package customer

// EmailTakenFunc reports whether some customer already holds email.
type EmailTakenFunc func(email string) (bool, error)

// ApplyUpdate merges req into current. Name and age are staged first; the
// email is only checked for uniqueness when it differs from the stored one,
// so the current record can never collide with itself. Comparison is exact,
// no case folding or trimming.
//
// It returns ErrEmailTaken when the new email belongs to someone else and
// ErrNoDataChanged when no provided field differs from the stored value.
// Errors from taken are returned unchanged.
func ApplyUpdate(current Customer, req UpdateRequest, taken EmailTakenFunc) (Customer, error) {
	updated := current
	changed := false

	if req.Name != nil && *req.Name != current.Name {
		updated.Name = *req.Name
		changed = true
	}

	if req.Age != nil && *req.Age != current.Age {
		updated.Age = *req.Age
		changed = true
	}

	if req.Email != nil && *req.Email != current.Email {
		exists, err := taken(*req.Email)
		if err != nil {
			return Customer{}, err
		}
		if exists {
			return Customer{}, ErrEmailTaken
		}
		updated.Email = *req.Email
		changed = true
	}

	if !changed {
		return Customer{}, ErrNoDataChanged
	}
	return updated, nil
}
