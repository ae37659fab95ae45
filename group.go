// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

// All is the universal request group. Every Request belongs to it without
// any declaration, and it is the group of dispatchers built with New.
//
// A named group is an interface embedding Request plus an unexported marker
// method. Listing a type as a member is a one-line method declaration, and
// because the marker is unexported the member list is closed to the
// declaring package:
//
//	type UserAPI interface {
//		httptyped.Request
//		userAPI()
//	}
//
//	func (GetUser) userAPI()    {}
//	func (DeleteUser) userAPI() {}
//
// A Dispatcher[UserAPI] only accepts values of static type UserAPI, so
// sending a request that is not a member fails to compile:
//
//	d, _ := httptyped.NewDispatcher[UserAPI]("https://users.example.com")
//	err := d.Send(ctx, GetUser{ID: 7}, &user)  // ok
//	err = d.Send(ctx, GetInvoice{ID: 7}, &inv) // does not compile
//
// A type may belong to any number of groups, one marker method per group.
// Embedding a member makes the outer type a member too, since the marker
// method is promoted; wrap a member in a named field instead when the outer
// type must stay out of the group.
type All = Request

// AsMember converts a dynamically typed request into a member of group G.
// It is only needed when requests are held as plain Request values, e.g.
// when routing them to one of several dispatchers.
func AsMember[G Request](req Request) (G, bool) {
	g, ok := req.(G)
	return g, ok
}
