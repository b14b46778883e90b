// Package graph is a small Microsoft Graph REST client.
//
// It covers what the mailbox operations need and nothing more: addressing a
// resource by path, the OData query options $select, $filter, $search,
// $orderby and $top, and JSON GET/POST. Authentication is the caller's
// concern: the *http.Client handed to NewClient is expected to attach the
// bearer token (see internal/auth).
//
// Example usage:
//
//	var page graph.Collection[graph.Message]
//	err := client.API("/me/mailFolders/inbox/messages").
//	    Select("id", "subject").
//	    OrderBy("receivedDateTime desc").
//	    Top(10).
//	    Get(ctx, &page)
//
// Non-2xx responses are returned as *APIError carrying Graph's error code and
// message.
package graph
