package entity

// Identity principal autenticado de una petición.
// El rol ya viene normalizado; nadie aguas abajo vuelve a compararlo como texto.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   Role
}

// IdentityOf construye la identidad a partir del usuario persistido.
func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
