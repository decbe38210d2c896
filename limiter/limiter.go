package limiter

import (
	"context"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

// 限速器接口，浏览器每次跳转页面前都要先从限速器拿到令牌
type RateLimiter interface {
	Wait(context.Context) error // 阻塞直到拿到令牌或上下文被取消
	Limit() rate.Limit          // 返回限速器的速率
}

// 一条限速规则：每EventDur秒最多EventCount次事件，令牌桶容量为Bucket
type Rule struct {
	EventCount int `yaml:"eventCount"`
	EventDur   int `yaml:"eventDur"`
	Bucket     int `yaml:"bucket"`
}

/*
输入若干条限速规则，输出一个组合后的限速器

跳过次数或时长不合法的规则，桶容量缺省为1；没有任何有效规则时返回一个永不阻塞的限速器
*/
func New(rules ...Rule) RateLimiter {
	limiters := make([]RateLimiter, 0, len(rules))
	for _, r := range rules {
		if r.EventCount <= 0 || r.EventDur <= 0 {
			continue
		}
		bucket := r.Bucket
		if bucket <= 0 {
			bucket = 1
		}
		limiters = append(limiters, rate.NewLimiter(Per(r.EventCount, time.Duration(r.EventDur)*time.Second), bucket))
	}
	if len(limiters) == 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return Multi(limiters...)
}

// 将多个限速器按速率从小到大排序，返回多限速器实例，最严格的限速器排在最前
func Multi(limiters ...RateLimiter) *multiLimiter {
	byLimit := func(i, j int) bool {
		return limiters[i].Limit() < limiters[j].Limit()
	}
	sort.Slice(limiters, byLimit)
	return &multiLimiter{limiters: limiters}
}

// 多限速器，依次等待其中的每一个限速器
type multiLimiter struct {
	limiters []RateLimiter
}

// 依次等待每个限速器发放令牌，任何一个返回错误就立即返回
func (l *multiLimiter) Wait(ctx context.Context) error {
	for _, l := range l.limiters {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// 返回最严格的那个速率
func (l *multiLimiter) Limit() rate.Limit {
	return l.limiters[0].Limit()
}

// 将duration时长内允许eventCount次事件换算成令牌的发放间隔
func Per(eventCount int, duration time.Duration) rate.Limit {
	return rate.Every(duration / time.Duration(eventCount))
}
