// Package graphql exposes the user domain over GraphQL. Execution is
// delegated to graphql-go; this package only declares the schema and
// bridges resolvers to the service layer.
package graphql

import (
	"errors"

	"blog-platform/internal/auth"
	"blog-platform/internal/user"

	"github.com/graphql-go/graphql"
)

// Deps are the collaborators resolvers need.
type Deps struct {
	Users *user.Service
}

var errAuthRequired = errors.New("authentication required")

// NewSchema builds the executable schema.
func NewSchema(d Deps) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"level": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(int)
					u, err := d.Users.GetByID(p.Context, int64(id))
					if err != nil {
						if errors.Is(err, user.ErrNotFound) {
							return nil, nil
						}
						return nil, err
					}
					return u, nil
				},
			},
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					u, err := auth.Principal(p.Context)
					if err != nil {
						return nil, errAuthRequired
					}
					return u, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"level":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					name, _ := p.Args["name"].(string)
					email, _ := p.Args["email"].(string)
					password, _ := p.Args["password"].(string)
					level, _ := p.Args["level"].(int)

					hash, err := auth.HashPassword(password)
					if err != nil {
						return nil, err
					}
					return d.Users.Register(p.Context, user.NewUser{
						Name:         name,
						Email:        email,
						PasswordHash: hash,
						Level:        level,
					})
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
