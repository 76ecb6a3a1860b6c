package main

// User facing strings returned by the handlers.
var (
	ContactSuccess = `Thank you for your message! I'll get back to you within 24 hours.`

	ContactError = `Sorry, there was an error sending your message. Please try again later.`

	ContactInvalid = `Please fill in your name, a valid email address, a subject and a message.`

	InvalidSeed = `seed must be a non-negative integer`

	InvalidCredentials = `Invalid credentials`
)
