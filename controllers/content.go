package controllers

type contentSection struct {
	Heading string
	Body    string
}

type staticContent struct {
	Title    string
	Lead     string
	Sections []contentSection
	CTA      string
	CTALink  string
}

var staticPages = map[string]staticContent{
	"about-us": {
		Title: "About Us",
		Lead:  "Fuse.Vip connects local businesses with the customers who keep coming back.",
		Sections: []contentSection{
			{"Our Mission", "We help independent businesses reward loyalty with a single membership card accepted across the whole network."},
			{"Xaman Integration", "Members can link an XRPL wallet through Xaman to receive rewards and track the Fuse.Vip token."},
			{"Our Values", "Community first, transparent rewards and tools that are simple for owners to run."},
			{"Meet Our Team", "A small team of builders, marketers and business owners based in the communities we serve."},
		},
		CTA: "Join the network", CTALink: "/register-business",
	},
	"resources": {
		Title: "Resources",
		Lead:  "Learn More About Fuse.Vip",
		Sections: []contentSection{
			{"Guides", "Step by step material on setting up rewards, onboarding staff and promoting your membership discount."},
			{"Subscribe to Our Newsletter", "Monthly product news and loyalty ideas from businesses in the network."},
		},
		CTA: "Book a call", CTALink: "/book-call",
	},
	"reviews": {
		Title: "Reviews",
		Lead:  "Testimonials",
		Sections: []contentSection{
			{"Our Client Satisfaction", "Owners in the network report more repeat visits within the first three months of offering a member discount."},
		},
		CTA: "Become a member", CTALink: "/upgrade",
	},
	"solutions": {
		Title: "Solutions",
		Lead:  "Innovative Solutions for Modern Businesses",
		Sections: []contentSection{
			{"Loyalty without the hardware", "Members show a digital card; you apply the discount you chose when you joined."},
			{"Referrals", "Businesses refer each other and see every referral on their dashboard."},
			{"Why Choose Our Solutions?", "No point-of-sale changes, no monthly minimums and a shared customer base from day one."},
		},
		CTA: "Register your business", CTALink: "/register-business",
	},
	"fuse": {
		Title: "Fuse.Vip Token",
		Lead:  "What is Fuse.Vip Token?",
		Sections: []contentSection{
			{"Benefits of Fuse.Vip Token", "Rewards that move with the member instead of staying locked inside a single store."},
			{"Token Use Cases", "Member rewards, business incentives and access to partner promotions."},
			{"How We Help You Integrate Fuse.Vip Token", "We handle the wallet connection and issue rewards on the XRP Ledger on your behalf."},
			{"Xaman Wallet Integration", "Scan a QR code with Xaman to link your wallet to your profile."},
			{"Join Our Early Access Program", "Businesses in the network get early access to token rewards."},
		},
		CTA: "Connect your wallet", CTALink: "/wallet",
	},
	"fuse-advantage": {
		Title: "The Fuse Advantage",
		Lead:  "One card, every participating business.",
		Sections: []contentSection{
			{"For members", "Discounts across the network, rewards on the XRP Ledger and exclusive events at higher tiers."},
			{"For businesses", "New customers from the shared network and a spotlight for featured partners."},
		},
		CTA: "See membership tiers", CTALink: "/upgrade",
	},
	"book-call": {
		Title: "Book a Call",
		Lead:  "Select a Time That Works for You",
		Sections: []contentSection{
			{"What to expect", "A thirty minute walkthrough of the network, pricing and how to get listed."},
		},
		CTA: "Register your business", CTALink: "/register-business",
	},
}
