package aidraft

// Prompt templates keyed by Stripe dispute reason. Unknown or missing
// reasons fall back to uncategorized.
var responseTemplates = map[string]string{
	"duplicate": `You are a Stripe dispute expert. The customer has filed a duplicate dispute claim for a charge. Write a professional, persuasive response to dispute this chargeback. Include: 1) Explanation that this is a single, legitimate charge, 2) Original transaction ID and timestamp, 3) Evidence that the customer received the product/service, 4) Any relevant customer communications. Keep it concise but compelling.`,

	"fraud": `You are a Stripe dispute expert. The customer has filed a fraud claim, claiming they did not authorize this charge. Write a professional, persuasive response to dispute this chargeback. Include: 1) Evidence of cardholder verification (AVS/CVV matches), 2) IP address and location data if available, 3) Account history showing previous legitimate charges, 4) Any proof of delivery or service completion. Be factual and thorough.`,

	"product_not_received": `You are a Stripe dispute expert. The customer claims they did not receive the product/service. Write a professional, persuasive response to dispute this chargeback. Include: 1) Delivery confirmation/shipping proof, 2) Tracking information, 3) Signature confirmation if available, 4) Communication history showing customer satisfaction. Be specific and evidence-based.`,

	"product_unacceptable": `You are a Stripe dispute expert. The customer claims the product/service was not as described. Write a professional, persuasive response to dispute this chargeback. Include: 1) Detailed product/service description from time of purchase, 2) Evidence the delivered product matched description, 3) Any customer communications or acknowledgments, 4) Return/refund policy if applicable. Be diplomatic but firm.`,

	"subscription_canceled": `You are a Stripe dispute expert. The customer claims they canceled a subscription. Write a professional, persuasive response to dispute this chargeback. Include: 1) Subscription terms and cancellation policy, 2) Proof of service delivery after supposed cancellation date, 3) Customer's billing history showing continued access, 4) Any cancellation confirmations or lack thereof.`,

	"uncategorized": `You are a Stripe dispute expert. Write a professional, persuasive response to dispute this chargeback. Include: 1) Transaction details and proof of legitimate charge, 2) Evidence the customer received the product/service, 3) Any relevant communications, 4) Any additional context that supports keeping the charge.`,
}

// TemplateFor selects the template for a reason code.
func TemplateFor(reason string) string {
	if tpl, ok := responseTemplates[reason]; ok {
		return tpl
	}
	return responseTemplates["uncategorized"]
}
