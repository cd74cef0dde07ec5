package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Campaigns
	CampaignsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_campaigns_total",
		Help: "The total number of campaign invocations",
	}, []string{"workflow", "outcome"})

	CampaignStartLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "crm_campaign_start_latency_seconds",
		Help: "Time from invocation to acknowledgement",
	}, []string{"workflow"})

	// Dispatch
	MessagesEnqueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_messages_enqueued_total",
		Help: "The total number of send requests handed to the notification stream",
	}, []string{"workflow"})

	MessagesDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_messages_dropped_total",
		Help: "The total number of send requests dropped before dispatch",
	}, []string{"workflow", "reason"})

	DispatchAcks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_dispatch_acks_total",
		Help: "The total number of dispatch acknowledgements received",
	}, []string{"workflow", "result"})

	TaskFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_task_failures_total",
		Help: "The total number of detached tasks that failed or panicked",
	}, []string{"task"})

	// Relays
	RelayItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_relay_items_total",
		Help: "The total number of items processed by stream relays",
	}, []string{"relay", "result"})

	// Collaborators
	UsersStreamed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_users_streamed_total",
		Help: "The total number of user records streamed by the user state service",
	}, []string{"store"})

	ContentCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_content_cache_total",
		Help: "Content cache lookups",
	}, []string{"result"})

	BrokerPublishes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_broker_publishes_total",
		Help: "Notification publishes to the message broker",
	}, []string{"subject", "result"})

	SenderQueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "crm_sender_queue_depth",
		Help: "The current depth of the notification sender queue",
	}, []string{"sender"})
)

func init() {
	prometheus.MustRegister(CampaignsTotal)
	prometheus.MustRegister(CampaignStartLatency)
	prometheus.MustRegister(MessagesEnqueued)
	prometheus.MustRegister(MessagesDropped)
	prometheus.MustRegister(DispatchAcks)
	prometheus.MustRegister(TaskFailures)
	prometheus.MustRegister(RelayItems)
	prometheus.MustRegister(UsersStreamed)
	prometheus.MustRegister(ContentCache)
	prometheus.MustRegister(BrokerPublishes)
	prometheus.MustRegister(SenderQueueDepth)
}
