package main

import "errors"

var errMissingPortalUrl = errors.New("portal.base_url (or " + envPortalUrl + ") must be set")
