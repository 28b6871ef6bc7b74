package chatbot

// knowledge is the fixed blob both answer paths draw from.
const knowledge = `
DINEAT RESTAURANT MANAGEMENT SYSTEM

Multi-role system: Admin, Kitchen Staff, Customers.

CUSTOMER FEATURES:
- Menu browsing by category (appetizers, main courses, desserts, beverages, specials)
  with vegetarian and vegan indicators
- Cart management with add/remove/update and automatic totals
- Table selection before checkout
- Payment options: cash on delivery, credit/debit cards, UPI (QR based), digital wallets
- Order tracking with live status updates

KITCHEN STAFF FEATURES:
- Board of active orders (confirmed, preparing, ready)
- Status management through CONFIRMED, PREPARING, READY, SERVED, COMPLETED
- Order details with table numbers and special instructions

ADMIN FEATURES:
- Order management across all customers
- User and role management

PAYMENTS:
- UPI payments render a upi://pay deep link and QR code
- Payment intents are tracked by short-lived tokens that expire after 15 minutes
`
