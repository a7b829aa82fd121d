// Package hosting defines the provider-neutral model of a Git hosting
// service.
//
// Consumers program against the interfaces here ([Hoster], [Repository],
// [Commit], [Issue], [MergeRequest], [Content], [Organization], [User]) and
// pick an implementation at startup:
//
//	var h hosting.Hoster = github.New(client)   // or gitlab.New(client)
//	repo, err := h.GetRepo("gitmate-test-user/test")
//	labels, err := repo.Labels(ctx)
//
// Every entity is backed by a lazily loaded JSON document and identified by
// its API URL; [Equal] and [Key] compare and index entities by that URL.
//
// Abstract enumerations ([Status], [State], [WebhookEvent]) are translated
// to each provider's encoding through a [Table]. A value a provider cannot
// represent is an error, never a silent default.
package hosting
