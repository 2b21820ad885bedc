package catalog

import "github.com/breverdbidder/property360-sale-advisor/internal/core/domain"

// builtinPhases is the default 10-phase income-property sale checklist.
func builtinPhases() []domain.Phase {
	return []domain.Phase{
		{
			ID:          1,
			Title:       "Financial Assessment",
			Description: "Understand your current equity position and tax implications",
			Items: []domain.ChecklistItem{
				{ID: "1-1", Text: "Calculate current mortgage payoff amount", Critical: true},
				{ID: "1-2", Text: "Estimate net equity after commissions and closing costs", Critical: true},
				{ID: "1-3", Text: "Review capital gains tax exposure (1031 exchange eligibility?)", Critical: true},
				{ID: "1-4", Text: "Assess depreciation recapture liability", Critical: false},
				{ID: "1-5", Text: "Review any prepayment penalties on existing loans", Critical: false},
				{ID: "1-6", Text: "Calculate cash-on-cash return vs. reinvestment alternatives", Critical: false},
			},
		},
		{
			ID:          2,
			Title:       "Property Condition Review",
			Description: "Document property state to maximize value and avoid surprises",
			Items: []domain.ChecklistItem{
				{ID: "2-1", Text: "Commission pre-listing inspection report", Critical: true},
				{ID: "2-2", Text: "Address deferred maintenance items (roof, HVAC, plumbing)", Critical: true},
				{ID: "2-3", Text: "Photograph all units — interior and exterior", Critical: false},
				{ID: "2-4", Text: "Document all recent capital improvements with receipts", Critical: false},
				{ID: "2-5", Text: "Verify permits pulled and closed for all improvements", Critical: true},
				{ID: "2-6", Text: "Check for environmental issues (mold, asbestos, lead paint)", Critical: true},
			},
		},
		{
			ID:          3,
			Title:       "Tenancy & Lease Audit",
			Description: "Clean up the rent roll before showing to buyers",
			Items: []domain.ChecklistItem{
				{ID: "3-1", Text: "Compile all current leases with expiration dates", Critical: true},
				{ID: "3-2", Text: "Document all current rents vs. market rents", Critical: true},
				{ID: "3-3", Text: "Identify month-to-month vs. fixed-term tenants", Critical: false},
				{ID: "3-4", Text: "Resolve any delinquent tenants before listing", Critical: true},
				{ID: "3-5", Text: "Review security deposit compliance per FL Statute 83.49", Critical: true},
				{ID: "3-6", Text: "Prepare 12-month rent roll in XLSX format", Critical: false},
			},
		},
		{
			ID:          4,
			Title:       "Income Optimization",
			Description: "Maximize NOI to improve cap rate and buyer appeal",
			Items: []domain.ChecklistItem{
				{ID: "4-1", Text: "Raise below-market rents where lease permits", Critical: true},
				{ID: "4-2", Text: "Bill-back utilities to tenants if not already doing so", Critical: false},
				{ID: "4-3", Text: "Add or audit coin laundry, parking, storage income", Critical: false},
				{ID: "4-4", Text: "Reduce vacancy by filling empty units before listing", Critical: true},
				{ID: "4-5", Text: "Document all ancillary income streams", Critical: false},
				{ID: "4-6", Text: "Calculate stabilized NOI for marketing package", Critical: true},
			},
		},
		{
			ID:          5,
			Title:       "Legal & Title Prep",
			Description: "Clear title issues and prepare legal docs for smooth closing",
			Items: []domain.ChecklistItem{
				{ID: "5-1", Text: "Order preliminary title search", Critical: true},
				{ID: "5-2", Text: "Resolve any liens, judgments, or encumbrances", Critical: true},
				{ID: "5-3", Text: "Confirm entity ownership is current (LLC operating agreement)", Critical: true},
				{ID: "5-4", Text: "Review any easements or deed restrictions affecting value", Critical: false},
				{ID: "5-5", Text: "Confirm property taxes are current (no certificates outstanding)", Critical: true},
				{ID: "5-6", Text: "Engage real estate attorney for contract review", Critical: false},
			},
		},
		{
			ID:          6,
			Title:       "Valuation & Pricing",
			Description: "Price correctly from day one to attract institutional buyers",
			Items: []domain.ChecklistItem{
				{ID: "6-1", Text: "Order independent MAI appraisal or broker opinion of value", Critical: true},
				{ID: "6-2", Text: "Pull 12-month comparable sales (cap rates, GRM)", Critical: true},
				{ID: "6-3", Text: "Calculate value using income approach, sales comparison, cost", Critical: false},
				{ID: "6-4", Text: "Set list price strategy: aggressive vs. value-add positioning", Critical: true},
				{ID: "6-5", Text: "Model buyer underwriting at 3 cap rate scenarios", Critical: false},
				{ID: "6-6", Text: "Define minimum acceptable net proceeds", Critical: true},
			},
		},
		{
			ID:          7,
			Title:       "Marketing Package",
			Description: "Build a compelling OM that sells before buyers visit",
			Items: []domain.ChecklistItem{
				{ID: "7-1", Text: "Create Offering Memorandum (OM) with financials and photos", Critical: true},
				{ID: "7-2", Text: "Professional photography and drone video", Critical: false},
				{ID: "7-3", Text: "Build 3-year proforma with value-add projections", Critical: true},
				{ID: "7-4", Text: "List on LoopNet, CoStar, Crexi, and MLS (if applicable)", Critical: true},
				{ID: "7-5", Text: "Target direct outreach to 1031 exchange buyers", Critical: false},
				{ID: "7-6", Text: "Set up data room (NDA-gated) for due diligence docs", Critical: true},
			},
		},
		{
			ID:          8,
			Title:       "Offer & Negotiation",
			Description: "Qualify buyers and negotiate terms that protect your position",
			Items: []domain.ChecklistItem{
				{ID: "8-1", Text: "Require proof of funds or pre-approval with all offers", Critical: true},
				{ID: "8-2", Text: "Evaluate offers on net proceeds, not just price", Critical: true},
				{ID: "8-3", Text: "Negotiate inspection period length (target 10-15 days)", Critical: false},
				{ID: "8-4", Text: "Negotiate earnest money (target 1-3% hard day 1)", Critical: true},
				{ID: "8-5", Text: "Review contingencies: financing, inspection, 1031 exchange", Critical: false},
				{ID: "8-6", Text: "Counter or accept best offer, execute contract", Critical: true},
			},
		},
		{
			ID:          9,
			Title:       "Due Diligence Support",
			Description: "Keep the deal alive through the buyer's inspection period",
			Items: []domain.ChecklistItem{
				{ID: "9-1", Text: "Provide all requested docs within 48 hours", Critical: true},
				{ID: "9-2", Text: "Coordinate property access for inspections and appraisal", Critical: true},
				{ID: "9-3", Text: "Respond to buyer repair requests strategically (credit vs. repair)", Critical: false},
				{ID: "9-4", Text: "Track contingency removal deadlines daily", Critical: true},
				{ID: "9-5", Text: "Confirm buyer's lender appraisal is ordered", Critical: false},
				{ID: "9-6", Text: "Maintain communication with tenants regarding access", Critical: false},
			},
		},
		{
			ID:          10,
			Title:       "Closing & Transition",
			Description: "Close smoothly and set up the buyer for success",
			Items: []domain.ChecklistItem{
				{ID: "10-1", Text: "Review HUD-1 / ALTA settlement statement 48 hours before closing", Critical: true},
				{ID: "10-2", Text: "Notify all tenants of ownership change in writing (FL Statute 83.50)", Critical: true},
				{ID: "10-3", Text: "Transfer security deposits to buyer at closing", Critical: true},
				{ID: "10-4", Text: "Provide keys, codes, and vendor contacts to buyer", Critical: false},
				{ID: "10-5", Text: "Reconcile prorated rents and deposits on closing statement", Critical: true},
				{ID: "10-6", Text: "Retain closing docs for tax purposes (7 years)", Critical: false},
			},
		},
	}
}
