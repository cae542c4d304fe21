/*
Package authsdk provides a client SDK for the sessiongate service, the
device-bound session and revocation layer that sits behind the OAuth2/OIDC
authorization server.

# Callers

One Client type serves three kinds of caller; only the bearer credential and
the headers differ.

The authorization server calls the hooks with the shared hook secret:

	hooks := authsdk.NewClient("https://sessions.internal", hookSecret)

	// Before issuing a code: is the user allowed on this client?
	grant, err := hooks.Authorize(ctx, authsdk.AuthorizeHookRequest{UserID: sub, ClientID: clientID})
	if errors.Is(err, authsdk.ErrNotAllowed) {
		// deny the authorization request
	}

	// On the token endpoint: the device headers must be present...
	err = hooks.CheckTokenRequest(ctx, presented)

	// ...and after the exchange succeeds, bind the session to the device.
	res, err := hooks.SignIn(ctx, authsdk.SignInHookRequest{
		GrantType:        "authorization_code",
		UserID:           sub,
		ClientID:         clientID,
		AuthorizedDevice: fromCode,
		PresentedDevice:  presented,
		TokenID:          refreshTokenID,
	})

Applications manage their own sessions with the user's access token and the
device headers:

	me := authsdk.NewClient(baseURL, accessToken).WithDevice(authsdk.Device{
		ID: "a1b2", Name: "Pixel 8", Platform: "android",
	})
	sessions, err := me.ListMySessions(ctx)
	_, err = me.RevokeOtherApps(ctx)

Administrators use an access token that carries the sessions:admin scope.
Tokens with only sessions:read may call the list and get methods:

	admin := authsdk.NewClient(baseURL, adminToken)
	entry, err := admin.AddAllowListEntry(ctx, authsdk.AddAllowListEntryRequest{
		UserID: "u1", ClientID: "web", Audiences: []string{"chat"},
	})
	change, err := admin.DisableAllowListEntry(ctx, entry.ID)

# Error Handling

Every non-2xx response is returned as *OAuth2Error. Errors compare by code,
so errors.Is works against the predefined values:

	if errors.Is(err, authsdk.ErrSessionRevoked) {
		// send the user back through the login flow
	}

# Thread Safety

A Client is safe for concurrent use. WithToken and WithDevice return copies
and never modify the receiver.
*/
package authsdk
