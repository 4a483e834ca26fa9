package request

import "fmt"

// TransitionName identifies one edge of the pickup-request status graph.
type TransitionName string

const (
	TransitionCreateRequest    TransitionName = "request_created"
	TransitionDonorApprove     TransitionName = "request_approved"
	TransitionDonorReject      TransitionName = "request_rejected"
	TransitionCancel           TransitionName = "request_cancelled"
	TransitionSelfPickup       TransitionName = "self_pickup"
	TransitionRequestVolunteer TransitionName = "volunteer_requested"
	TransitionVolunteerAccept  TransitionName = "volunteer_accepted"
	TransitionPickedUp         TransitionName = "food_picked_up"
	TransitionDelivered        TransitionName = "food_delivered"
	TransitionConfirm          TransitionName = "delivery_confirmed"
)

type RecipientSelector string

const (
	RecipientDonor     RecipientSelector = "donor"
	RecipientReceiver  RecipientSelector = "receiver"
	RecipientVolunteer RecipientSelector = "volunteer"
)

// RuleData carries the values the body and link templates may reference.
type RuleData struct {
	RequestID    string
	ListingID    string
	ListingTitle string
}

// NotificationRule is pure data: which transition notifies whom, with
// what text. Keeping the messaging out of the engine keeps both testable
// on their own.
type NotificationRule struct {
	Trigger   TransitionName
	Recipient RecipientSelector
	Title     string
	Body      func(d RuleData) string
	Link      func(d RuleData) string
}

func listingLink(d RuleData) string {
	return fmt.Sprintf("/food/%s", d.ListingID)
}

var notificationRules = []NotificationRule{
	{
		Trigger:   TransitionCreateRequest,
		Recipient: RecipientDonor,
		Title:     "New pickup request",
		Body: func(d RuleData) string {
			return fmt.Sprintf("Someone requested \"%s\". Review and approve the pickup.", d.ListingTitle)
		},
		Link: listingLink,
	},
	{
		Trigger:   TransitionDonorApprove,
		Recipient: RecipientReceiver,
		Title:     "Request approved",
		Body: func(d RuleData) string {
			return fmt.Sprintf("Your request for \"%s\" was approved. Choose self pickup or ask for a volunteer.", d.ListingTitle)
		},
		Link: listingLink,
	},
	{
		Trigger:   TransitionDonorReject,
		Recipient: RecipientReceiver,
		Title:     "Request declined",
		Body: func(d RuleData) string {
			return fmt.Sprintf("The donor declined your request for \"%s\". The listing is available again.", d.ListingTitle)
		},
		Link: listingLink,
	},
	{
		Trigger:   TransitionCancel,
		Recipient: RecipientDonor,
		Title:     "Request cancelled",
		Body: func(d RuleData) string {
			return fmt.Sprintf("The request for \"%s\" was cancelled. Your listing is available again.", d.ListingTitle)
		},
		Link: listingLink,
	},
	{
		Trigger:   TransitionSelfPickup,
		Recipient: RecipientDonor,
		Title:     "Receiver picking up",
		Body: func(d RuleData) string {
			return fmt.Sprintf("The receiver is picking up \"%s\" themselves.", d.ListingTitle)
		},
		Link: listingLink,
	},
	{
		Trigger:   TransitionVolunteerAccept,
		Recipient: RecipientReceiver,
		Title:     "Volunteer accepted",
		Body: func(d RuleData) string {
			return fmt.Sprintf("A volunteer accepted the delivery of \"%s\".", d.ListingTitle)
		},
		Link: listingLink,
	},
	{
		Trigger:   TransitionPickedUp,
		Recipient: RecipientReceiver,
		Title:     "Food picked up",
		Body: func(d RuleData) string {
			return fmt.Sprintf("Your volunteer picked up \"%s\" and is on the way.", d.ListingTitle)
		},
		Link: listingLink,
	},
	{
		Trigger:   TransitionDelivered,
		Recipient: RecipientReceiver,
		Title:     "Food delivered",
		Body: func(d RuleData) string {
			return fmt.Sprintf("\"%s\" was delivered. Please confirm you received it.", d.ListingTitle)
		},
		Link: listingLink,
	},
	{
		Trigger:   TransitionConfirm,
		Recipient: RecipientDonor,
		Title:     "Delivery confirmed",
		Body: func(d RuleData) string {
			return fmt.Sprintf("The receiver confirmed delivery of \"%s\". Thank you for donating!", d.ListingTitle)
		},
		Link: listingLink,
	},
	{
		Trigger:   TransitionConfirm,
		Recipient: RecipientVolunteer,
		Title:     "Delivery confirmed",
		Body: func(d RuleData) string {
			return fmt.Sprintf("The receiver confirmed delivery of \"%s\". Thanks for helping out!", d.ListingTitle)
		},
		Link: listingLink,
	},
}

// RulesFor returns every rule fired by the given transition.
func RulesFor(trigger TransitionName) []NotificationRule {
	var rules []NotificationRule
	for _, rule := range notificationRules {
		if rule.Trigger == trigger {
			rules = append(rules, rule)
		}
	}
	return rules
}
