// Package graw is a typed client for the Reddit API with OAuth2 grant flows.
//
// # Overview
//
// A Client is created by Login from an auth.Authenticator and an optional
// Config. The authenticator decides how the session obtains its token:
//
//   - auth.NewAnonymous: no token, requests go to the public API host
//   - auth.NewPassword: the password grant for script apps
//   - auth.NewCode: the authorization_code grant for web and installed apps
//   - auth.NewToken: a refresh token saved from an earlier code grant
//
// # Quick Start
//
//	a := auth.NewPassword("client-id", "client-secret", "username", "password")
//	client, err := graw.Login(ctx, a, &graw.Config{
//		UserAgent: "linux:myapp:1.0 (by /u/yourusername)",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Logout(ctx)
//
// # Token Lifecycle
//
// Every request checks whether the token has expired before it is sent. If it
// has and the authenticator can renew it, the token is refreshed once and the
// request goes out with the new token. Clients returned by Clone share one
// credential store, so a refresh through any of them is seen by all of them and
// concurrent requests that all find the token expired share a single refresh.
//
// There is no reactive retry: a request rejected with 401 is returned to the
// caller as a KindHTTP error.
//
// # Hosts
//
// Requests go to Config.OAuthURL when the authenticator supports OAuth and to
// Config.PublicURL otherwise. Endpoints that only exist on the OAuth host, such
// as Me or Messages, panic when called on an anonymous client; that is a
// programming error rather than a runtime condition.
//
// # Common Operations
//
// Fetch hot links from a subreddit:
//
//	page, err := client.Subreddit("golang").Hot(ctx, &types.FeedOptions{Limit: 25})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, link := range page.Links {
//		fmt.Printf("%s (score: %d)\n", link.Title, link.Score)
//	}
//
// Walk every page of a feed:
//
//	it := client.Subreddit("golang").Iterator(ctx, graw.SortNew, nil)
//	for it.HasNext() {
//		link, err := it.NextLink()
//		if errors.Is(err, graw.ErrIteratorDone) {
//			break
//		}
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(link.Title)
//	}
//
// Retrieve a comment tree and load truncated replies:
//
//	page, err := client.Comments(ctx, "t3_abc123", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d comments\n", page.Tree().Count())
//	if len(page.MoreIDs) > 0 {
//		more, err := client.MoreComments(ctx, "t3_abc123", page.MoreIDs, nil)
//		...
//	}
//
// Endpoints not wrapped here can be reached with GetJSON and PostJSON, which
// run the same refresh and signing pipeline:
//
//	var thing types.Thing
//	err := client.GetJSON(ctx, "r/golang/about/rules", false, &thing)
//
// # Errors
//
// Every operation returns a *errors.Error from pkg/errors. Its Kind tells
// transport failures, non-2xx responses, undecodable bodies, misuse and
// unrenewable tokens apart:
//
//	if errors.IsNotFound(err) {
//		// the subreddit, user or link does not exist
//	}
//
// # Logging
//
// Set Config.Logger to receive debug records for login, refresh, logout and
// every request. Secrets are never logged.
//
// # Rate Limiting
//
// Requests are not throttled unless Config.RateLimit is set. When it is, the
// client also honors Retry-After and the X-Ratelimit-* headers Reddit sends.
package graw
