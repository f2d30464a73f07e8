package handler

import "github.com/gin-gonic/gin"

const (
	errInternalServer   = "Internal server error"
	errUserNotFound     = "User not found"
	errUsernameTaken    = "Username is already taken"
	errEmailTaken       = "User already exists with this email"
	errRegisterUser     = "Internal server error while registering user"
	errInvalidUsername  = "Username must be 2-20 characters and contain only letters, digits or underscores"
	errCodeExpired      = "Verification code has expired, please signup to get a new code"
	errCodeMismatch     = "Incorrect Verification code"
	errVerifyUser       = "Error verifying user"
	errNoSuchAccount    = "No user found with this email or username"
	errNotVerified      = "Please verify your account before signing in"
	errInvalidPassword  = "Incorrect password"
	errNotAccepting     = "User is not accepting the messages"
	errMessageNotFound  = "Message not found or already deleted"
	errUpdatePreference = "Failed to update message acceptance status"
)

const (
	msgRegistered      = "User registered successfully. Please verify your account."
	msgVerified        = "Account verified successfully"
	msgSignedIn        = "Signed in successfully"
	msgSignedOut       = "Signed out"
	msgUsernameUnique  = "Username is unique"
	msgMessageSent     = "Message sent successfully"
	msgMessageDeleted  = "Message deleted"
	msgPreferenceSaved = "Message acceptance status updated successfully"
)

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
