// Package notification implements notification composition, multi-channel
// delivery, inbox access, and the audit trail around them.
//
// # Architecture
//
// The package follows a layered architecture:
//
//   - Repository: durable notification records (memory and Postgres backends)
//   - Adapter: one per external provider (Postmark email, SMS gateway,
//     in-app broadcast hub), each folding its own failures into a
//     DeliveryResult instead of returning errors
//   - Coordinator: routes delivery targets to adapters, applies user channel
//     opt-outs, and collects one result per target in input order
//   - Service: orchestrates authorization, input normalization, org-policy
//     suppression, persistence, dispatch, cache hints, and audit recording
//
// # Delivery semantics
//
// A record is persisted exactly once, before dispatch, so it exists even
// when every delivery fails. Delivery problems never fail the compose call:
// callers inspect the per-target DeliveryResult list, where suppression by
// organization settings, suppression by user preference, unsupported
// targets, missing provider configuration, and transport failures are all
// distinguishable by status and detail.
//
// # Basic usage
//
//	repo := notification.NewMemoryRepository()
//	coordinator := notification.NewCoordinator([]notification.Adapter{
//	    notification.NewEmailAdapter(sender),
//	    notification.NewInAppAdapter(hub),
//	})
//	svc := notification.NewService(repo, guard, settingsLoader, coordinator,
//	    notification.WithAuditRecorder(recorder),
//	)
//
//	out, err := svc.ComposeAndSend(ctx, notification.ComposeInput{
//	    Access: callerCtx,
//	    UserID: "user-123",
//	    Title:  "Policy updated",
//	    Body:   "The travel policy changed.",
//	    Topic:  notification.TopicPolicyUpdate,
//	    Targets: []notification.DeliveryTarget{
//	        {Channel: notification.ChannelEmail, Address: "user@example.com"},
//	    },
//	})
package notification
