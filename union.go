package api

import "reflect"

// UnionVariant pairs a discriminator value with the concrete type it selects.
// Build one with Variant.
type UnionVariant struct {
	tag string
	typ reflect.Type
}

// Variant declares one alternative of a discriminated union.
func Variant[V any](tag string) UnionVariant {
	return UnionVariant{tag: tag, typ: reflect.TypeFor[V]()}
}

// WithUnion registers T as a discriminated union over the given variants.
// T synthesizes as a oneOf of the variant schemas plus a discriminator
// whose mapping routes each tag value to its variant.
//
//	api.New(api.WithUnion[Event]("type",
//		api.Variant[UserCreated]("user.created"),
//		api.Variant[UserDeleted]("user.deleted"),
//	))
func WithUnion[T any](discriminator string, variants ...UnionVariant) RouterOption {
	return func(r *Router) {
		t := reflect.TypeFor[T]()
		u := unionDescriptor{discriminator: discriminator}
		for _, v := range variants {
			u.variants = append(u.variants, unionVariantRef{tag: v.tag, typ: v.typ})
		}
		r.types.unions[t] = u
		r.types.derive(t)
	}
}
