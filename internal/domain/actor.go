package domain

type ActorKind int

const (
	ActorAnonymous ActorKind = iota
	ActorCustomer
	ActorAdmin
)

// Actor is the identity behind a request, supplied by the session layer.
type Actor struct {
	Kind       ActorKind
	CustomerID int64
	Email      string
}

func AnonymousActor() Actor {
	return Actor{Kind: ActorAnonymous}
}

func CustomerActor(id int64, email string) Actor {
	return Actor{Kind: ActorCustomer, CustomerID: id, Email: email}
}

func AdminActor(email string) Actor {
	return Actor{Kind: ActorAdmin, Email: email}
}

func (a Actor) IsAdmin() bool     { return a.Kind == ActorAdmin }
func (a Actor) IsCustomer() bool  { return a.Kind == ActorCustomer }
func (a Actor) IsAnonymous() bool { return a.Kind == ActorAnonymous }

func (k ActorKind) String() string {
	switch k {
	case ActorCustomer:
		return "customer"
	case ActorAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}
