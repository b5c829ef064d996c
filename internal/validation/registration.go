package validation

// Registration validates a signup payload.
func (v *Validator) Registration(name, email, phone, password, deviceID string) {
	v.Required("name", name)
	v.MaxLength("name", name, MaxNameLength)
	v.Required("email", email)
	v.Email("email", email)
	if phone != "" {
		v.Phone("phone", phone)
	}
	v.Required("password", password)
	v.MinLength("password", password, MinPasswordLength)
	v.MaxLength("password", password, MaxPasswordLength)
	v.Required("device_id", deviceID)
}

// WithdrawalInput validates the user-supplied part of a withdrawal request.
func (v *Validator) WithdrawalInput(method, details string) {
	v.Required("method", method)
	v.Required("details", details)
	v.MaxLength("details", details, MaxDetailsLength)
}
