package b2bi

// Mailbox represents a mailbox in the mailbox repository.
type Mailbox struct {
	Tracked `json:"-" yaml:"-"`

	MailboxID       string   `json:"mailboxId,omitempty"       yaml:"mailbox_id,omitempty"`
	Path            string   `json:"path"                      yaml:"path"`
	Description     string   `json:"description,omitempty"     yaml:"description,omitempty"`
	LinkedFromPath  string   `json:"linkedFromPath,omitempty"  yaml:"linked_from_path,omitempty"`
	PermissionNames []string `json:"permissionNames,omitempty" yaml:"permission_names,omitempty"`
}

// Key implements Entity.Key.
func (m *Mailbox) Key() string {
	if m.MailboxID != "" {
		return m.MailboxID
	}

	return m.Path
}

// Rebuild implements Entity.Rebuild.
func (m *Mailbox) Rebuild(original []byte) (Entity, error) {
	fresh := &Mailbox{}

	err := Decode(original, fresh)
	if err != nil {
		return nil, err
	}

	return fresh, nil
}

// TradingPartner represents a trading partner profile.
type TradingPartner struct {
	Tracked `json:"-" yaml:"-"`

	PartnerName           string            `json:"partnerName"                  yaml:"partner_name"`
	Community             string            `json:"community,omitempty"          yaml:"community,omitempty"`
	EmailAddress          string            `json:"emailAddress,omitempty"       yaml:"email_address,omitempty"`
	Phone                 string            `json:"phone,omitempty"              yaml:"phone,omitempty"`
	AuthenticationHost    string            `json:"authenticationHost,omitempty" yaml:"authentication_host,omitempty"`
	DoesRequireSignedData bool              `json:"doesRequireSignedData"        yaml:"does_require_signed_data"`
	Properties            map[string]string `json:"properties,omitempty"         yaml:"properties,omitempty"`
}

// Key implements Entity.Key.
func (p *TradingPartner) Key() string {
	return p.PartnerName
}

// Rebuild implements Entity.Rebuild.
func (p *TradingPartner) Rebuild(original []byte) (Entity, error) {
	fresh := &TradingPartner{}

	err := Decode(original, fresh)
	if err != nil {
		return nil, err
	}

	return fresh, nil
}

// Certificate represents a CA certificate in the certificate store.
type Certificate struct {
	Tracked `json:"-" yaml:"-"`

	CertName           string `json:"certName"               yaml:"cert_name"`
	CertData           string `json:"certData,omitempty"     yaml:"cert_data,omitempty"`
	SerialNumber       string `json:"serialNumber,omitempty" yaml:"serial_number,omitempty"`
	NotAfter           string `json:"notAfter,omitempty"     yaml:"not_after,omitempty"`
	VerifyAtDeployment bool   `json:"verifyAtDeployment"     yaml:"verify_at_deployment"`
}

// Key implements Entity.Key.
func (c *Certificate) Key() string {
	return c.CertName
}

// Rebuild implements Entity.Rebuild.
func (c *Certificate) Rebuild(original []byte) (Entity, error) {
	fresh := &Certificate{}

	err := Decode(original, fresh)
	if err != nil {
		return nil, err
	}

	return fresh, nil
}

// User represents a user account.
type User struct {
	Tracked `json:"-" yaml:"-"`

	UserID             string   `json:"userId"                       yaml:"user_id"`
	GivenName          string   `json:"givenName,omitempty"          yaml:"given_name,omitempty"`
	Surname            string   `json:"surname,omitempty"            yaml:"surname,omitempty"`
	Email              string   `json:"email,omitempty"              yaml:"email,omitempty"`
	AuthenticationType string   `json:"authenticationType,omitempty" yaml:"authentication_type,omitempty"`
	Groups             []string `json:"groups,omitempty"             yaml:"groups,omitempty"`
	Permissions        []string `json:"permissions,omitempty"        yaml:"permissions,omitempty"`
}

// Key implements Entity.Key.
func (u *User) Key() string {
	return u.UserID
}

// Rebuild implements Entity.Rebuild.
func (u *User) Rebuild(original []byte) (Entity, error) {
	fresh := &User{}

	err := Decode(original, fresh)
	if err != nil {
		return nil, err
	}

	return fresh, nil
}
